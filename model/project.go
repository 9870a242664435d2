package model

import (
	"time"
)

// Project embeds its milestones, and each milestone its tasks, so every
// nested change rewrites the milestones array of one document.
type Project struct {
	ID          string      `firestore:"id" bson:"_id" json:"id"`
	Name        string      `firestore:"name" bson:"name" json:"name"`
	Description string      `firestore:"description,omitempty" bson:"description,omitempty" json:"description,omitempty"`
	WorkspaceID string      `firestore:"workspaceId,omitempty" bson:"workspaceId,omitempty" json:"workspaceId"`
	CreatedBy   string      `firestore:"createdBy,omitempty" bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time   `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time   `firestore:"updatedAt,omitempty" bson:"updatedAt,omitempty" json:"updatedAt"`
	Milestones  []Milestone `firestore:"milestones" bson:"milestones" json:"milestones"`
}

type Milestone struct {
	ID       string     `firestore:"id" bson:"id" json:"id"`
	Name     string     `firestore:"name" bson:"name" json:"name"`
	DueDate  *time.Time `firestore:"dueDate,omitempty" bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Reminder bool       `firestore:"reminder,omitempty" bson:"reminder,omitempty" json:"reminder"`
	Tasks    []Task     `firestore:"tasks" bson:"tasks" json:"tasks"`
}

// Task.CompletedAt is set if and only if Completed is true.
type Task struct {
	ID          string     `firestore:"id" bson:"id" json:"id"`
	Name        string     `firestore:"name" bson:"name" json:"name"`
	Description string     `firestore:"description,omitempty" bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time `firestore:"dueDate,omitempty" bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Completed   bool       `firestore:"completed" bson:"completed" json:"completed"`
	CompletedAt *time.Time `firestore:"completedAt,omitempty" bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// Normalize replaces nil arrays so they are stored and served as [] rather
// than null.
func (p *Project) Normalize() {
	if p.Milestones == nil {
		p.Milestones = []Milestone{}
	}
	for i := range p.Milestones {
		if p.Milestones[i].Tasks == nil {
			p.Milestones[i].Tasks = []Task{}
		}
	}
}

// Clone returns a deep copy whose arrays can be rewritten without touching p.
func (p Project) Clone() Project {
	out := p
	out.Milestones = make([]Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		m.Tasks = append([]Task(nil), m.Tasks...)
		if m.Tasks == nil {
			m.Tasks = []Task{}
		}
		out.Milestones[i] = m
	}
	return out
}
