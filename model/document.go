package model

import (
	"path"
	"strings"
	"time"
)

const (
	DocumentCategoryAll = "All"

	DocumentCategoryGeneral   = "General"
	DocumentCategoryLegal     = "Legal"
	DocumentCategoryFinance   = "Finance"
	DocumentCategoryHR        = "HR"
	DocumentCategoryProject   = "Project"
	DocumentCategoryMarketing = "Marketing"
)

var DocumentCategories = []string{
	DocumentCategoryGeneral,
	DocumentCategoryLegal,
	DocumentCategoryFinance,
	DocumentCategoryHR,
	DocumentCategoryProject,
	DocumentCategoryMarketing,
}

func IsDocumentCategory(c string) bool {
	for _, dc := range DocumentCategories {
		if dc == c {
			return true
		}
	}
	return false
}

type Document struct {
	ID          string    `firestore:"id" bson:"_id" json:"id"`
	Name        string    `firestore:"name" bson:"name" json:"name"`
	Type        string    `firestore:"type" bson:"type" json:"type"`
	Category    string    `firestore:"category" bson:"category" json:"category"`
	ContentType string    `firestore:"contentType,omitempty" bson:"contentType,omitempty" json:"contentType,omitempty"`
	Size        int64     `firestore:"size,omitempty" bson:"size,omitempty" json:"size,omitempty"`
	URL         string    `firestore:"url" bson:"url" json:"url"`
	StoragePath string    `firestore:"storagePath" bson:"storagePath" json:"storagePath"`
	WorkspaceID string    `firestore:"workspaceId,omitempty" bson:"workspaceId,omitempty" json:"workspaceId"`
	UploadedBy  string    `firestore:"uploadedBy,omitempty" bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
}

var documentTypes = map[string]string{
	"pdf":  "PDF",
	"doc":  "Word",
	"docx": "Word",
	"xls":  "Spreadsheet",
	"xlsx": "Spreadsheet",
	"csv":  "Spreadsheet",
	"ppt":  "Presentation",
	"pptx": "Presentation",
	"png":  "Image",
	"jpg":  "Image",
	"jpeg": "Image",
	"gif":  "Image",
	"webp": "Image",
	"zip":  "Archive",
	"rar":  "Archive",
}

// DocumentType infers the display type of a file from its extension.
func DocumentType(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if t, ok := documentTypes[ext]; ok {
		return t
	}
	return "Other"
}
