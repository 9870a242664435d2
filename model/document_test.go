package model

import "testing"

func TestDocumentType(t *testing.T) {
	tests := map[string]string{
		"report.pdf":      "PDF",
		"Contract.DOCX":   "Word",
		"notes.doc":       "Word",
		"budget.xlsx":     "Spreadsheet",
		"export.csv":      "Spreadsheet",
		"pitch.pptx":      "Presentation",
		"logo.png":        "Image",
		"photo.JPEG":      "Image",
		"backup.zip":      "Archive",
		"archive.rar":     "Archive",
		"README":          "Other",
		"script.sh":       "Other",
		"archive.tar.zip": "Archive",
	}
	for name, want := range tests {
		if got := DocumentType(name); got != want {
			t.Errorf("DocumentType(%q) = %q, want %q", name, got, want)
		}
	}
}
