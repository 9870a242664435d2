package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"insynchub/metrics"
	"insynchub/model"
	"insynchub/repository"
	"insynchub/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileUpload is a file received from a multipart form.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

type DocumentService struct {
	docs  repository.DocumentRepository
	blobs storage.BlobStore
	log   *zap.Logger
	now   func() time.Time
}

func NewDocumentService(docs repository.DocumentRepository, blobs storage.BlobStore, log *zap.Logger) *DocumentService {
	return &DocumentService{docs: docs, blobs: blobs, log: log, now: time.Now}
}

func (s *DocumentService) UploadDocument(ctx context.Context, sess model.Session, category string, f FileUpload) (*model.Document, error) {
	if !model.IsDocumentCategory(category) {
		return nil, invalid("unknown document category %q", category)
	}
	if strings.TrimSpace(f.Name) == "" {
		return nil, invalid("file name is required")
	}

	contentType, body, err := storage.Sniff(f.Content)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	now := s.now()
	objectPath := storage.ObjectPath(repository.DocumentsCollection, f.Name, now)
	url, err := s.blobs.Upload(ctx, objectPath, contentType, body, f.Size)
	metrics.IncrementBlobOperation("upload", err)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", f.Name, err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Name:        f.Name,
		Type:        model.DocumentType(f.Name),
		Category:    category,
		ContentType: contentType,
		Size:        f.Size,
		URL:         url,
		StoragePath: objectPath,
		WorkspaceID: sess.WorkspaceID,
		UploadedBy:  sess.UserID,
		CreatedAt:   now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, objectPath); delErr != nil {
			s.log.Warn("failed to remove orphaned upload",
				zap.String("path", objectPath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns the workspace's documents matching both the
// category tab and the name search, newest first.
func (s *DocumentService) ListDocuments(ctx context.Context, sess model.Session, category, search string) ([]model.Document, error) {
	docs, err := s.docs.List(ctx, sess.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs = FilterDocuments(docs, category, search)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

// FilterDocuments keeps documents in category (empty or "All" keeps every
// category) whose name contains search, ignoring case.
func FilterDocuments(docs []model.Document, category, search string) []model.Document {
	search = strings.ToLower(strings.TrimSpace(search))
	out := []model.Document{}
	for _, d := range docs {
		if category != "" && category != model.DocumentCategoryAll && d.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Name), search) {
			continue
		}
		out = append(out, d)
	}
	return out
}

type DeleteResult struct {
	Deleted    []string `json:"deleted"`
	Skipped    []string `json:"skipped"`
	BlobErrors int      `json:"blobErrors"`
}

// DeleteDocuments removes each document's blob and then its record. The two
// stores are not atomic: a failed blob delete is logged and the record is
// removed regardless.
func (s *DocumentService) DeleteDocuments(ctx context.Context, sess model.Session, ids []string) (DeleteResult, error) {
	result := DeleteResult{Deleted: []string{}, Skipped: []string{}}
	for _, id := range ids {
		doc, err := s.docs.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("get document %s: %w", id, err)
		}
		if !model.InWorkspace(doc.WorkspaceID, sess.WorkspaceID) {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		if doc.StoragePath != "" {
			err := s.blobs.Delete(ctx, doc.StoragePath)
			metrics.IncrementBlobOperation("delete", err)
			if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				result.BlobErrors++
				s.log.Error("failed to delete document blob",
					zap.String("document_id", id),
					zap.String("path", doc.StoragePath),
					zap.Error(err),
				)
			}
		}

		if err := s.docs.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return result, fmt.Errorf("delete document %s: %w", id, err)
		}
		result.Deleted = append(result.Deleted, id)
	}
	return result, nil
}
