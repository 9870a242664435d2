package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"insynchub/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

func (c mongoCollection[T]) get(ctx context.Context, id string) (*T, error) {
	var v T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c mongoCollection[T]) set(ctx context.Context, id string, v *T) error {
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, v, options.Replace().SetUpsert(true))
	return err
}

func (c mongoCollection[T]) replace(ctx context.Context, id string, v *T) error {
	result, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, v)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c mongoCollection[T]) delete(ctx context.Context, id string) error {
	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c mongoCollection[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// workspaceFilter mirrors model.InWorkspace.
func workspaceFilter(workspaceID string) bson.M {
	if workspaceID != model.LegacyWorkspace {
		return bson.M{"workspaceId": workspaceID}
	}
	return bson.M{"$or": bson.A{
		bson.M{"workspaceId": workspaceID},
		bson.M{"workspaceId": bson.M{"$exists": false}},
		bson.M{"workspaceId": ""},
	}}
}

// NewMongoStore returns repositories backed by collections of db. The nested
// project update needs multi-document transactions, so db must live on a
// replica set.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Projects: &mongoProjects{
			client: db.Client(),
			c:      mongoCollection[model.Project]{db.Collection(ProjectsCollection)},
		},
		Documents:    &mongoDocuments{c: mongoCollection[model.Document]{db.Collection(DocumentsCollection)}},
		Transactions: &mongoTransactions{c: mongoCollection[model.Transaction]{db.Collection(TransactionsCollection)}},
		Grievances:   &mongoGrievances{c: mongoCollection[model.Grievance]{db.Collection(GrievancesCollection)}},
		Users:        &mongoUsers{c: mongoCollection[model.UserProfile]{db.Collection(UsersCollection)}},
		Reminders:    &mongoReminders{c: mongoCollection[model.Reminder]{db.Collection(RemindersCollection)}},
	}
}

// CreateMongoIndexes creates the indexes the list queries rely on.
func CreateMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byWorkspace := mongo.IndexModel{
		Keys:    bson.D{{Key: "workspaceId", Value: 1}},
		Options: options.Index().SetName("idx_workspace"),
	}
	indexes := map[string][]mongo.IndexModel{
		ProjectsCollection:     {byWorkspace},
		DocumentsCollection:    {byWorkspace},
		TransactionsCollection: {byWorkspace},
		UsersCollection: {
			byWorkspace,
			{
				Keys:    bson.D{{Key: "workspaces", Value: 1}},
				Options: options.Index().SetName("idx_workspaces"),
			},
		},
		GrievancesCollection: {
			byWorkspace,
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workspaceId", Value: 1}},
				Options: options.Index().SetName("idx_user_workspace"),
			},
		},
		RemindersCollection: {
			byWorkspace,
			{
				Keys:    bson.D{{Key: "date", Value: 1}},
				Options: options.Index().SetName("idx_date"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

type mongoProjects struct {
	client *mongo.Client
	c      mongoCollection[model.Project]
}

func (r *mongoProjects) Create(ctx context.Context, p *model.Project) error {
	p.Normalize()
	_, err := r.c.coll.InsertOne(ctx, p)
	return err
}

func (r *mongoProjects) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := r.c.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

func (r *mongoProjects) List(ctx context.Context, workspaceID string) ([]model.Project, error) {
	ps, err := r.c.find(ctx, workspaceFilter(workspaceID))
	if err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].Normalize()
	}
	return ps, nil
}

func (r *mongoProjects) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// Mutate runs inside a session transaction; WithTransaction retries the
// callback when a concurrent writer causes a transient write conflict.
func (r *mongoProjects) Mutate(ctx context.Context, id string, fn func(p *model.Project) error) (*model.Project, error) {
	sess, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var p model.Project
		err := r.c.coll.FindOne(sc, bson.M{"_id": id}).Decode(&p)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		p.Normalize()
		if err := fn(&p); err != nil {
			return nil, err
		}
		p.Normalize()

		if _, err := r.c.coll.UpdateOne(sc, bson.M{"_id": id}, projectUpdate(p)); err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Project), nil
}

// projectUpdate writes the mutable fields of p. An empty description is
// unset so the stored document matches p.
func projectUpdate(p model.Project) bson.M {
	set := bson.M{
		"name":       p.Name,
		"updatedAt":  p.UpdatedAt,
		"milestones": p.Milestones,
	}
	update := bson.M{"$set": set}
	if p.Description != "" {
		set["description"] = p.Description
	} else {
		update["$unset"] = bson.M{"description": ""}
	}
	return update
}

type mongoDocuments struct {
	c mongoCollection[model.Document]
}

func (r *mongoDocuments) Create(ctx context.Context, d *model.Document) error {
	return r.c.set(ctx, d.ID, d)
}

func (r *mongoDocuments) Get(ctx context.Context, id string) (*model.Document, error) {
	return r.c.get(ctx, id)
}

func (r *mongoDocuments) List(ctx context.Context, workspaceID string) ([]model.Document, error) {
	return r.c.find(ctx, workspaceFilter(workspaceID))
}

func (r *mongoDocuments) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type mongoTransactions struct {
	c mongoCollection[model.Transaction]
}

func (r *mongoTransactions) Create(ctx context.Context, t *model.Transaction) error {
	return r.c.set(ctx, t.ID, t)
}

func (r *mongoTransactions) Get(ctx context.Context, id string) (*model.Transaction, error) {
	return r.c.get(ctx, id)
}

func (r *mongoTransactions) List(ctx context.Context, workspaceID string) ([]model.Transaction, error) {
	return r.c.find(ctx, workspaceFilter(workspaceID))
}

func (r *mongoTransactions) Update(ctx context.Context, t *model.Transaction) error {
	return r.c.replace(ctx, t.ID, t)
}

func (r *mongoTransactions) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type mongoGrievances struct {
	c mongoCollection[model.Grievance]
}

func (r *mongoGrievances) Create(ctx context.Context, g *model.Grievance) error {
	return r.c.set(ctx, g.ID, g)
}

func (r *mongoGrievances) Get(ctx context.Context, id string) (*model.Grievance, error) {
	return r.c.get(ctx, id)
}

func (r *mongoGrievances) List(ctx context.Context, workspaceID string) ([]model.Grievance, error) {
	return r.c.find(ctx, workspaceFilter(workspaceID))
}

func (r *mongoGrievances) ListByUser(ctx context.Context, workspaceID, userID string) ([]model.Grievance, error) {
	filter := workspaceFilter(workspaceID)
	filter["userId"] = userID
	return r.c.find(ctx, filter)
}

func (r *mongoGrievances) Update(ctx context.Context, g *model.Grievance) error {
	return r.c.replace(ctx, g.ID, g)
}

func (r *mongoGrievances) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type mongoUsers struct {
	c mongoCollection[model.UserProfile]
}

func (r *mongoUsers) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	return r.c.get(ctx, uid)
}

func (r *mongoUsers) Upsert(ctx context.Context, u *model.UserProfile) error {
	return r.c.set(ctx, u.UID, u)
}

func (r *mongoUsers) ListMembers(ctx context.Context, workspaceID string) ([]model.UserProfile, error) {
	return r.c.find(ctx, memberFilter(workspaceID))
}

// memberFilter matches the active workspace (with the legacy fallback) or an
// entry of the workspaces array.
func memberFilter(workspaceID string) bson.M {
	return bson.M{"$or": bson.A{
		workspaceFilter(workspaceID),
		bson.M{"workspaces": workspaceID},
	}}
}

type mongoReminders struct {
	c mongoCollection[model.Reminder]
}

func (r *mongoReminders) Create(ctx context.Context, rem *model.Reminder) error {
	return r.c.set(ctx, rem.ID, rem)
}

func (r *mongoReminders) Get(ctx context.Context, id string) (*model.Reminder, error) {
	return r.c.get(ctx, id)
}

func (r *mongoReminders) List(ctx context.Context, workspaceID string) ([]model.Reminder, error) {
	return r.c.find(ctx, workspaceFilter(workspaceID))
}

func (r *mongoReminders) ListBetween(ctx context.Context, from, to time.Time) ([]model.Reminder, error) {
	return r.c.find(ctx, bson.M{"date": bson.M{"$gte": from, "$lt": to}})
}

func (r *mongoReminders) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}
