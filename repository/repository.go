// Package repository persists InSync Hub records. Every collection has a
// Firestore, a MongoDB and an in-memory driver behind the same interfaces.
package repository

import (
	"context"
	"errors"
	"time"

	"insynchub/model"
)

var ErrNotFound = errors.New("record not found")

// Collection names shared by every driver.
const (
	ProjectsCollection     = "projects"
	DocumentsCollection    = "documents"
	TransactionsCollection = "transactions"
	GrievancesCollection   = "grievances"
	UsersCollection        = "users"
	RemindersCollection    = "reminders"
)

// List methods taking a workspace apply the legacy merge rule of
// model.InWorkspace. Results are unordered.

type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, workspaceID string) ([]model.Project, error)
	Delete(ctx context.Context, id string) error
	// Mutate reads the project, lets fn modify it and writes name,
	// description, updatedAt and the whole milestones array back in one
	// transaction. An error from fn aborts without writing.
	Mutate(ctx context.Context, id string, fn func(p *model.Project) error) (*model.Project, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) error
	Get(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, workspaceID string) ([]model.Document, error)
	Delete(ctx context.Context, id string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	Get(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context, workspaceID string) ([]model.Transaction, error)
	Update(ctx context.Context, t *model.Transaction) error
	Delete(ctx context.Context, id string) error
}

type GrievanceRepository interface {
	Create(ctx context.Context, g *model.Grievance) error
	Get(ctx context.Context, id string) (*model.Grievance, error)
	List(ctx context.Context, workspaceID string) ([]model.Grievance, error)
	ListByUser(ctx context.Context, workspaceID, userID string) ([]model.Grievance, error)
	Update(ctx context.Context, g *model.Grievance) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Get(ctx context.Context, uid string) (*model.UserProfile, error)
	Upsert(ctx context.Context, u *model.UserProfile) error
	// ListMembers returns every user who belongs to workspaceID, whichever
	// workspace they are currently working in.
	ListMembers(ctx context.Context, workspaceID string) ([]model.UserProfile, error)
}

type ReminderRepository interface {
	Create(ctx context.Context, r *model.Reminder) error
	Get(ctx context.Context, id string) (*model.Reminder, error)
	List(ctx context.Context, workspaceID string) ([]model.Reminder, error)
	// ListBetween returns reminders of every workspace with from <= date < to.
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Reminder, error)
	Delete(ctx context.Context, id string) error
}

// Store bundles one driver's repositories.
type Store struct {
	Projects     ProjectRepository
	Documents    DocumentRepository
	Transactions TransactionRepository
	Grievances   GrievanceRepository
	Users        UserRepository
	Reminders    ReminderRepository
}
