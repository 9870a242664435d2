package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestObjectPath(t *testing.T) {
	now := time.UnixMilli(1717000000123)
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"plain", "report.pdf", "documents/1717000000123_report.pdf"},
		{"strips directories", "../../etc/passwd", "documents/1717000000123_passwd"},
		{"windows path", `C:\Users\me\budget.xlsx`, "documents/1717000000123_budget.xlsx"},
		{"empty", "", "documents/1717000000123_file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectPath("documents", tt.fileName, now); got != tt.want {
				t.Errorf("ObjectPath(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestSniffKeepsContent(t *testing.T) {
	content := "%PDF-1.4\n" + strings.Repeat("x", 5000)
	contentType, r, err := Sniff(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Sniff failed: %v", err)
	}
	if contentType != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", contentType)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != content {
		t.Errorf("content changed: got %d bytes, want %d", len(got), len(content))
	}
}

func TestSniffShortInput(t *testing.T) {
	_, r, err := Sniff(strings.NewReader("hi"))
	if err != nil {
		t.Fatalf("Sniff failed: %v", err)
	}
	got, _ := io.ReadAll(r)
	if string(got) != "hi" {
		t.Errorf("got %q, want %q", got, "hi")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	url, err := s.Upload(ctx, "documents/1_a.txt", "text/plain", strings.NewReader("hello"), 5)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "memory://documents/1_a.txt" {
		t.Errorf("url = %q", url)
	}
	data, contentType, ok := s.Object("documents/1_a.txt")
	if !ok || string(data) != "hello" || contentType != "text/plain" {
		t.Errorf("Object = %q, %q, %v", data, contentType, ok)
	}

	if err := s.Delete(ctx, "documents/1_a.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "documents/1_a.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}
