package model

import (
	"time"
)

// Reminder is a one-shot notification for every user holding TargetRole on
// Date. It is deleted once dispatched.
type Reminder struct {
	ID          string    `firestore:"id" bson:"_id" json:"id"`
	Title       string    `firestore:"title" bson:"title" json:"title"`
	Message     string    `firestore:"message,omitempty" bson:"message,omitempty" json:"message"`
	Date        time.Time `firestore:"date" bson:"date" json:"date"`
	TargetRole  string    `firestore:"targetRole" bson:"targetRole" json:"targetRole"`
	WorkspaceID string    `firestore:"workspaceId,omitempty" bson:"workspaceId,omitempty" json:"workspaceId"`
	ProjectID   string    `firestore:"projectId,omitempty" bson:"projectId,omitempty" json:"projectId,omitempty"`
	MilestoneID string    `firestore:"milestoneId,omitempty" bson:"milestoneId,omitempty" json:"milestoneId,omitempty"`
	CreatedBy   string    `firestore:"createdBy,omitempty" bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
}

// Targets reports whether a user with role is a recipient.
func (r Reminder) Targets(role string) bool {
	return r.TargetRole == RoleAll || r.TargetRole == role
}
