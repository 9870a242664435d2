package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"insynchub/dto"
	"insynchub/metrics"
	"insynchub/model"
	"insynchub/repository"
	"insynchub/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GrievanceService handles confidential complaints. Authors see their own,
// admins see every grievance of the workspace.
type GrievanceService struct {
	grievances repository.GrievanceRepository
	blobs      storage.BlobStore
	log        *zap.Logger
	now        func() time.Time
}

func NewGrievanceService(grievances repository.GrievanceRepository, blobs storage.BlobStore, log *zap.Logger) *GrievanceService {
	return &GrievanceService{grievances: grievances, blobs: blobs, log: log, now: time.Now}
}

// SubmitGrievance stores a grievance, uploading attachment first when one
// is given.
func (s *GrievanceService) SubmitGrievance(ctx context.Context, sess model.Session, req dto.SubmitGrievanceRequest, attachment *FileUpload) (*model.Grievance, error) {
	subject := strings.TrimSpace(req.Subject)
	description := strings.TrimSpace(req.Description)
	if subject == "" || description == "" {
		return nil, invalid("subject and description are required")
	}

	now := s.now()
	g := &model.Grievance{
		ID:          uuid.New().String(),
		UserID:      sess.UserID,
		UserEmail:   sess.Email,
		Subject:     subject,
		Description: description,
		Status:      model.GrievancePending,
		WorkspaceID: sess.WorkspaceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if attachment != nil {
		contentType, body, err := storage.Sniff(attachment.Content)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		objectPath := storage.ObjectPath(repository.GrievancesCollection, attachment.Name, now)
		url, err := s.blobs.Upload(ctx, objectPath, contentType, body, attachment.Size)
		metrics.IncrementBlobOperation("upload", err)
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		g.FileURL = url
		g.FilePath = objectPath
	}

	if err := s.grievances.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("save grievance: %w", err)
	}
	return g, nil
}

func (s *GrievanceService) ListGrievances(ctx context.Context, sess model.Session) ([]model.Grievance, error) {
	var (
		gs  []model.Grievance
		err error
	)
	if sess.Role == model.RoleAdmin {
		gs, err = s.grievances.List(ctx, sess.WorkspaceID)
	} else {
		gs, err = s.grievances.ListByUser(ctx, sess.WorkspaceID, sess.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].CreatedAt.After(gs[j].CreatedAt) })
	return gs, nil
}

// get loads a grievance the caller may see. Anything else reads as not
// found so the existence of other people's grievances is not revealed.
func (s *GrievanceService) get(ctx context.Context, sess model.Session, id string) (*model.Grievance, error) {
	g, err := s.grievances.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get grievance %s: %w", id, err)
	}
	if !model.InWorkspace(g.WorkspaceID, sess.WorkspaceID) {
		return nil, ErrNotFound
	}
	if sess.Role != model.RoleAdmin && g.UserID != sess.UserID {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *GrievanceService) UpdateStatus(ctx context.Context, sess model.Session, id string, req dto.UpdateGrievanceStatusRequest) (*model.Grievance, error) {
	if sess.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if !model.IsGrievanceStatus(req.Status) {
		return nil, invalid("unknown grievance status %q", req.Status)
	}
	g, err := s.get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	g.Status = req.Status
	if note := strings.TrimSpace(req.AdminNote); note != "" {
		g.AdminNote = note
	}
	g.UpdatedAt = s.now()
	if err := s.grievances.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update grievance %s: %w", id, err)
	}
	return g, nil
}

// DeleteGrievance is allowed to admins, and to the author while the
// grievance is still pending.
func (s *GrievanceService) DeleteGrievance(ctx context.Context, sess model.Session, id string) error {
	g, err := s.get(ctx, sess, id)
	if err != nil {
		return err
	}
	if sess.Role != model.RoleAdmin && g.Status != model.GrievancePending {
		return ErrForbidden
	}

	if g.FilePath != "" {
		err := s.blobs.Delete(ctx, g.FilePath)
		metrics.IncrementBlobOperation("delete", err)
		if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Error("failed to delete grievance attachment",
				zap.String("grievance_id", id),
				zap.String("path", g.FilePath),
				zap.Error(err),
			)
		}
	}
	if err := s.grievances.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete grievance %s: %w", id, err)
	}
	return nil
}
