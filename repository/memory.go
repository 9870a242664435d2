package repository

import (
	"context"
	"sync"
	"time"

	"insynchub/model"
)

// memCollection keeps values by id. Values are copied in and out so callers
// never share state with the store.
type memCollection[T any] struct {
	mu        sync.RWMutex
	items     map[string]T
	workspace func(T) string
}

func newMemCollection[T any](workspace func(T) string) *memCollection[T] {
	return &memCollection[T]{items: make(map[string]T), workspace: workspace}
}

func (c *memCollection[T]) get(id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (c *memCollection[T]) put(id string, v T) {
	c.mu.Lock()
	c.items[id] = v
	c.mu.Unlock()
}

func (c *memCollection[T]) replace(id string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	c.items[id] = v
	return nil
}

func (c *memCollection[T]) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	return nil
}

func (c *memCollection[T]) filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []T{}
	for _, v := range c.items {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *memCollection[T]) list(workspaceID string) []T {
	return c.filter(func(v T) bool {
		return model.InWorkspace(c.workspace(v), workspaceID)
	})
}

// NewMemoryStore returns a Store that lives in process memory. It backs local
// runs without cloud credentials and the test suites.
func NewMemoryStore() *Store {
	return &Store{
		Projects: &memProjects{c: newMemCollection(func(p model.Project) string { return p.WorkspaceID })},
		Documents: &memDocuments{c: newMemCollection(func(d model.Document) string {
			return d.WorkspaceID
		})},
		Transactions: &memTransactions{c: newMemCollection(func(t model.Transaction) string {
			return t.WorkspaceID
		})},
		Grievances: &memGrievances{c: newMemCollection(func(g model.Grievance) string {
			return g.WorkspaceID
		})},
		Users: &memUsers{c: newMemCollection(func(u model.UserProfile) string {
			return u.WorkspaceID
		})},
		Reminders: &memReminders{c: newMemCollection(func(r model.Reminder) string {
			return r.WorkspaceID
		})},
	}
}

type memProjects struct {
	c *memCollection[model.Project]
}

func (r *memProjects) Create(_ context.Context, p *model.Project) error {
	p.Normalize()
	r.c.put(p.ID, p.Clone())
	return nil
}

func (r *memProjects) Get(_ context.Context, id string) (*model.Project, error) {
	p, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	out := p.Clone()
	return &out, nil
}

func (r *memProjects) List(_ context.Context, workspaceID string) ([]model.Project, error) {
	ps := r.c.list(workspaceID)
	for i := range ps {
		ps[i] = ps[i].Clone()
	}
	return ps, nil
}

func (r *memProjects) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}

// Mutate holds the collection lock for the whole read-modify-write, which is
// the in-memory equivalent of a document transaction.
func (r *memProjects) Mutate(_ context.Context, id string, fn func(p *model.Project) error) (*model.Project, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	current, ok := r.c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.Normalize()
	r.c.items[id] = next.Clone()
	return &next, nil
}

type memDocuments struct {
	c *memCollection[model.Document]
}

func (r *memDocuments) Create(_ context.Context, d *model.Document) error {
	r.c.put(d.ID, *d)
	return nil
}

func (r *memDocuments) Get(_ context.Context, id string) (*model.Document, error) {
	return r.c.get(id)
}

func (r *memDocuments) List(_ context.Context, workspaceID string) ([]model.Document, error) {
	return r.c.list(workspaceID), nil
}

func (r *memDocuments) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}

type memTransactions struct {
	c *memCollection[model.Transaction]
}

func (r *memTransactions) Create(_ context.Context, t *model.Transaction) error {
	r.c.put(t.ID, *t)
	return nil
}

func (r *memTransactions) Get(_ context.Context, id string) (*model.Transaction, error) {
	return r.c.get(id)
}

func (r *memTransactions) List(_ context.Context, workspaceID string) ([]model.Transaction, error) {
	return r.c.list(workspaceID), nil
}

func (r *memTransactions) Update(_ context.Context, t *model.Transaction) error {
	return r.c.replace(t.ID, *t)
}

func (r *memTransactions) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}

type memGrievances struct {
	c *memCollection[model.Grievance]
}

func (r *memGrievances) Create(_ context.Context, g *model.Grievance) error {
	r.c.put(g.ID, *g)
	return nil
}

func (r *memGrievances) Get(_ context.Context, id string) (*model.Grievance, error) {
	return r.c.get(id)
}

func (r *memGrievances) List(_ context.Context, workspaceID string) ([]model.Grievance, error) {
	return r.c.list(workspaceID), nil
}

func (r *memGrievances) ListByUser(_ context.Context, workspaceID, userID string) ([]model.Grievance, error) {
	return r.c.filter(func(g model.Grievance) bool {
		return g.UserID == userID && model.InWorkspace(g.WorkspaceID, workspaceID)
	}), nil
}

func (r *memGrievances) Update(_ context.Context, g *model.Grievance) error {
	return r.c.replace(g.ID, *g)
}

func (r *memGrievances) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}

type memUsers struct {
	c *memCollection[model.UserProfile]
}

func (r *memUsers) Get(_ context.Context, uid string) (*model.UserProfile, error) {
	return r.c.get(uid)
}

func (r *memUsers) Upsert(_ context.Context, u *model.UserProfile) error {
	r.c.put(u.UID, *u)
	return nil
}

func (r *memUsers) ListMembers(_ context.Context, workspaceID string) ([]model.UserProfile, error) {
	return r.c.filter(func(u model.UserProfile) bool { return u.MemberOf(workspaceID) }), nil
}

type memReminders struct {
	c *memCollection[model.Reminder]
}

func (r *memReminders) Create(_ context.Context, rem *model.Reminder) error {
	r.c.put(rem.ID, *rem)
	return nil
}

func (r *memReminders) Get(_ context.Context, id string) (*model.Reminder, error) {
	return r.c.get(id)
}

func (r *memReminders) List(_ context.Context, workspaceID string) ([]model.Reminder, error) {
	return r.c.list(workspaceID), nil
}

func (r *memReminders) ListBetween(_ context.Context, from, to time.Time) ([]model.Reminder, error) {
	return r.c.filter(func(rem model.Reminder) bool {
		return !rem.Date.Before(from) && rem.Date.Before(to)
	}), nil
}

func (r *memReminders) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}
