package repository

import (
	"testing"
	"time"

	"insynchub/model"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFirestoreProjectUpdatesClearDescription(t *testing.T) {
	p := model.Project{Name: "Launch", UpdatedAt: time.Unix(1717000000, 0), Milestones: []model.Milestone{}}

	fields := map[string]interface{}{}
	for _, u := range projectUpdates(p) {
		fields[u.Path] = u.Value
	}
	if fields["description"] != firestore.Delete {
		t.Errorf("cleared description not deleted: %v", fields["description"])
	}
	if fields["name"] != "Launch" {
		t.Errorf("name = %v", fields["name"])
	}

	p.Description = "Q3 launch"
	for _, u := range projectUpdates(p) {
		if u.Path == "description" && u.Value != "Q3 launch" {
			t.Errorf("description = %v", u.Value)
		}
	}
}

func TestMongoProjectUpdateClearsDescription(t *testing.T) {
	p := model.Project{Name: "Launch", Milestones: []model.Milestone{}}

	update := projectUpdate(p)
	unset, ok := update["$unset"].(bson.M)
	if !ok || len(unset) != 1 {
		t.Fatalf("expected $unset of description, got %v", update)
	}
	if _, ok := unset["description"]; !ok {
		t.Errorf("unexpected $unset %v", unset)
	}
	if _, ok := update["$set"].(bson.M)["description"]; ok {
		t.Error("cleared description also $set")
	}

	p.Description = "Q3 launch"
	update = projectUpdate(p)
	if _, ok := update["$unset"]; ok {
		t.Errorf("unexpected $unset %v", update["$unset"])
	}
	if update["$set"].(bson.M)["description"] != "Q3 launch" {
		t.Errorf("description not set: %v", update["$set"])
	}
}

func TestMongoMemberFilter(t *testing.T) {
	f := memberFilter(model.WorkspaceMedia)
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("unexpected filter %v", f)
	}
	if or[1].(bson.M)["workspaces"] != model.WorkspaceMedia {
		t.Errorf("membership clause = %v", or[1])
	}
}
