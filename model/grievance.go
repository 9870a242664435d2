package model

import "time"

const (
	GrievancePending  = "Pending"
	GrievanceInReview = "In Review"
	GrievanceResolved = "Resolved"
)

func IsGrievanceStatus(s string) bool {
	return s == GrievancePending || s == GrievanceInReview || s == GrievanceResolved
}

// Grievance is confidential: only its author and admins may read it.
type Grievance struct {
	ID          string    `firestore:"id" bson:"_id" json:"id"`
	UserID      string    `firestore:"userId" bson:"userId" json:"userId"`
	UserEmail   string    `firestore:"userEmail" bson:"userEmail" json:"userEmail"`
	Subject     string    `firestore:"subject" bson:"subject" json:"subject"`
	Description string    `firestore:"description" bson:"description" json:"description"`
	FileURL     string    `firestore:"fileUrl,omitempty" bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	FilePath    string    `firestore:"filePath,omitempty" bson:"filePath,omitempty" json:"filePath,omitempty"`
	Status      string    `firestore:"status" bson:"status" json:"status"`
	AdminNote   string    `firestore:"adminNote,omitempty" bson:"adminNote,omitempty" json:"adminNote,omitempty"`
	WorkspaceID string    `firestore:"workspaceId,omitempty" bson:"workspaceId,omitempty" json:"workspaceId"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt,omitempty" bson:"updatedAt,omitempty" json:"updatedAt"`
}
