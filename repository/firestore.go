package repository

import (
	"context"
	"fmt"
	"time"

	"insynchub/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fsCollection stores each record as one document whose id is the record id.
type fsCollection[T any] struct {
	client    *firestore.Client
	name      string
	workspace func(T) string
}

func (c fsCollection[T]) ref(id string) *firestore.DocumentRef {
	return c.client.Collection(c.name).Doc(id)
}

func (c fsCollection[T]) get(ctx context.Context, id string) (*T, error) {
	snap, err := c.ref(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return &v, nil
}

func (c fsCollection[T]) set(ctx context.Context, id string, v *T) error {
	_, err := c.ref(id).Set(ctx, v)
	return err
}

// replace overwrites an existing document and fails with ErrNotFound when
// there is nothing to overwrite.
func (c fsCollection[T]) replace(ctx context.Context, id string, v *T) error {
	ref := c.ref(id)
	return c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		if !snap.Exists() {
			return ErrNotFound
		}
		return tx.Set(ref, v)
	})
}

func (c fsCollection[T]) delete(ctx context.Context, id string) error {
	_, err := c.ref(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (c fsCollection[T]) all(ctx context.Context, q firestore.Query) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, doc.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// list narrows q to a workspace. Firestore cannot match a missing field, so
// the legacy workspace scans q and keeps records without a workspace too.
func (c fsCollection[T]) list(ctx context.Context, q firestore.Query, workspaceID string) ([]T, error) {
	if workspaceID != model.LegacyWorkspace {
		q = q.Where("workspaceId", "==", workspaceID)
	}
	items, err := c.all(ctx, q)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, v := range items {
		if model.InWorkspace(c.workspace(v), workspaceID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (c fsCollection[T]) query() firestore.Query {
	return c.client.Collection(c.name).Query
}

// compactUpdates turns a field map into Firestore updates, dropping nil
// values because Firestore rejects undefined fields.
func compactUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		if value == nil {
			continue
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

// NewFirestoreStore returns repositories backed by Firestore collections.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Projects: &fsProjects{c: fsCollection[model.Project]{client, ProjectsCollection,
			func(p model.Project) string { return p.WorkspaceID }}},
		Documents: &fsDocuments{c: fsCollection[model.Document]{client, DocumentsCollection,
			func(d model.Document) string { return d.WorkspaceID }}},
		Transactions: &fsTransactions{c: fsCollection[model.Transaction]{client, TransactionsCollection,
			func(t model.Transaction) string { return t.WorkspaceID }}},
		Grievances: &fsGrievances{c: fsCollection[model.Grievance]{client, GrievancesCollection,
			func(g model.Grievance) string { return g.WorkspaceID }}},
		Users: &fsUsers{c: fsCollection[model.UserProfile]{client, UsersCollection,
			func(u model.UserProfile) string { return u.WorkspaceID }}},
		Reminders: &fsReminders{c: fsCollection[model.Reminder]{client, RemindersCollection,
			func(r model.Reminder) string { return r.WorkspaceID }}},
	}
}

type fsProjects struct {
	c fsCollection[model.Project]
}

func (r *fsProjects) Create(ctx context.Context, p *model.Project) error {
	p.Normalize()
	return r.c.set(ctx, p.ID, p)
}

func (r *fsProjects) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := r.c.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

func (r *fsProjects) List(ctx context.Context, workspaceID string) ([]model.Project, error) {
	ps, err := r.c.list(ctx, r.c.query(), workspaceID)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].Normalize()
	}
	return ps, nil
}

func (r *fsProjects) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// Mutate relies on RunTransaction: if another client commits to the same
// project between our read and write, the commit is rejected and fn runs
// again against the fresh document.
func (r *fsProjects) Mutate(ctx context.Context, id string, fn func(p *model.Project) error) (*model.Project, error) {
	ref := r.c.ref(id)
	var result model.Project

	err := r.c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		if !snap.Exists() {
			return ErrNotFound
		}

		var p model.Project
		if err := snap.DataTo(&p); err != nil {
			return fmt.Errorf("decode project %s: %w", id, err)
		}
		p.Normalize()
		if err := fn(&p); err != nil {
			return err
		}
		p.Normalize()
		result = p

		return tx.Update(ref, projectUpdates(p))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// projectUpdates writes the mutable fields of p. An empty description is
// deleted so the stored document matches p.
func projectUpdates(p model.Project) []firestore.Update {
	var description interface{} = firestore.Delete
	if p.Description != "" {
		description = p.Description
	}
	return compactUpdates(map[string]interface{}{
		"name":        p.Name,
		"description": description,
		"updatedAt":   p.UpdatedAt,
		"milestones":  p.Milestones,
	})
}

type fsDocuments struct {
	c fsCollection[model.Document]
}

func (r *fsDocuments) Create(ctx context.Context, d *model.Document) error {
	return r.c.set(ctx, d.ID, d)
}

func (r *fsDocuments) Get(ctx context.Context, id string) (*model.Document, error) {
	return r.c.get(ctx, id)
}

func (r *fsDocuments) List(ctx context.Context, workspaceID string) ([]model.Document, error) {
	return r.c.list(ctx, r.c.query(), workspaceID)
}

func (r *fsDocuments) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type fsTransactions struct {
	c fsCollection[model.Transaction]
}

func (r *fsTransactions) Create(ctx context.Context, t *model.Transaction) error {
	return r.c.set(ctx, t.ID, t)
}

func (r *fsTransactions) Get(ctx context.Context, id string) (*model.Transaction, error) {
	return r.c.get(ctx, id)
}

func (r *fsTransactions) List(ctx context.Context, workspaceID string) ([]model.Transaction, error) {
	return r.c.list(ctx, r.c.query(), workspaceID)
}

func (r *fsTransactions) Update(ctx context.Context, t *model.Transaction) error {
	return r.c.replace(ctx, t.ID, t)
}

func (r *fsTransactions) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type fsGrievances struct {
	c fsCollection[model.Grievance]
}

func (r *fsGrievances) Create(ctx context.Context, g *model.Grievance) error {
	return r.c.set(ctx, g.ID, g)
}

func (r *fsGrievances) Get(ctx context.Context, id string) (*model.Grievance, error) {
	return r.c.get(ctx, id)
}

func (r *fsGrievances) List(ctx context.Context, workspaceID string) ([]model.Grievance, error) {
	return r.c.list(ctx, r.c.query(), workspaceID)
}

func (r *fsGrievances) ListByUser(ctx context.Context, workspaceID, userID string) ([]model.Grievance, error) {
	return r.c.list(ctx, r.c.query().Where("userId", "==", userID), workspaceID)
}

func (r *fsGrievances) Update(ctx context.Context, g *model.Grievance) error {
	return r.c.replace(ctx, g.ID, g)
}

func (r *fsGrievances) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type fsUsers struct {
	c fsCollection[model.UserProfile]
}

func (r *fsUsers) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	return r.c.get(ctx, uid)
}

func (r *fsUsers) Upsert(ctx context.Context, u *model.UserProfile) error {
	return r.c.set(ctx, u.UID, u)
}

// ListMembers scans the directory: membership spans the active workspaceId
// and the workspaces array, and legacy profiles have neither.
func (r *fsUsers) ListMembers(ctx context.Context, workspaceID string) ([]model.UserProfile, error) {
	users, err := r.c.all(ctx, r.c.query())
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.MemberOf(workspaceID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fsReminders struct {
	c fsCollection[model.Reminder]
}

func (r *fsReminders) Create(ctx context.Context, rem *model.Reminder) error {
	return r.c.set(ctx, rem.ID, rem)
}

func (r *fsReminders) Get(ctx context.Context, id string) (*model.Reminder, error) {
	return r.c.get(ctx, id)
}

func (r *fsReminders) List(ctx context.Context, workspaceID string) ([]model.Reminder, error) {
	return r.c.list(ctx, r.c.query(), workspaceID)
}

func (r *fsReminders) ListBetween(ctx context.Context, from, to time.Time) ([]model.Reminder, error) {
	return r.c.all(ctx, r.c.query().Where("date", ">=", from).Where("date", "<", to))
}

func (r *fsReminders) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}
