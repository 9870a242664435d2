package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"insynchub/dto"
	"insynchub/metrics"
	"insynchub/model"
	"insynchub/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messenger delivers one text message to one phone number.
type Messenger interface {
	Send(ctx context.Context, phone, message string) error
}

type NotificationService struct {
	reminders repository.ReminderRepository
	users     repository.UserRepository
	messenger Messenger
	loc       *time.Location
	log       *zap.Logger
	now       func() time.Time
}

func NewNotificationService(reminders repository.ReminderRepository, users repository.UserRepository, messenger Messenger, loc *time.Location, log *zap.Logger) *NotificationService {
	return &NotificationService{
		reminders: reminders,
		users:     users,
		messenger: messenger,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

type DispatchResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// DispatchDueReminders sends every reminder dated today (in the service's
// time zone) to the users holding its target role, then deletes it. A failed
// send is logged and counted but the reminder is deleted anyway, so nothing
// is retried by the next sweep.
func (s *NotificationService) DispatchDueReminders(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult

	from := startOfDay(s.now(), s.loc)
	to := from.AddDate(0, 0, 1)
	due, err := s.reminders.ListBetween(ctx, from, to)
	if err != nil {
		return result, fmt.Errorf("list due reminders: %w", err)
	}
	s.log.Info("reminder sweep started",
		zap.Time("from", from),
		zap.Int("due", len(due)),
	)

	directory := make(map[string][]model.UserProfile)
	for _, rem := range due {
		workspace := rem.WorkspaceID
		if workspace == "" {
			workspace = model.LegacyWorkspace
		}
		users, ok := directory[workspace]
		if !ok {
			users, err = s.users.ListMembers(ctx, workspace)
			if err != nil {
				return result, fmt.Errorf("list users of %s: %w", workspace, err)
			}
			directory[workspace] = users
		}

		message := formatReminder(rem)
		for _, u := range recipients(rem, users) {
			if err := s.messenger.Send(ctx, u.Phone, message); err != nil {
				result.Failed++
				metrics.IncrementReminderMessage("failed")
				s.log.Error("failed to send reminder",
					zap.String("reminder_id", rem.ID),
					zap.String("uid", u.UID),
					zap.Error(err),
				)
				continue
			}
			result.Sent++
			metrics.IncrementReminderMessage("sent")
		}

		if err := s.reminders.Delete(ctx, rem.ID); err != nil {
			s.log.Error("failed to delete dispatched reminder",
				zap.String("reminder_id", rem.ID),
				zap.Error(err),
			)
		}
		result.Processed++
		metrics.IncrementRemindersProcessed()
	}

	s.log.Info("reminder sweep finished",
		zap.Int("processed", result.Processed),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// recipients returns the users targeted by rem that have a phone number.
func recipients(rem model.Reminder, users []model.UserProfile) []model.UserProfile {
	var out []model.UserProfile
	for _, u := range users {
		if strings.TrimSpace(u.Phone) == "" || !rem.Targets(u.Role) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func formatReminder(rem model.Reminder) string {
	if rem.Message == "" {
		return "*" + rem.Title + "*"
	}
	return "*" + rem.Title + "*\n" + rem.Message
}

func (s *NotificationService) CreateReminder(ctx context.Context, sess model.Session, req dto.CreateReminderRequest) (*model.Reminder, error) {
	if !model.HasRole(sess.Role, model.RoleAdmin, model.RoleManager) {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if req.TargetRole != model.RoleAll && !model.IsRole(req.TargetRole) {
		return nil, invalid("unknown target role %q", req.TargetRole)
	}
	date, err := parseDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, invalid("date is required")
	}

	rem := &model.Reminder{
		ID:          uuid.New().String(),
		Title:       title,
		Message:     strings.TrimSpace(req.Message),
		Date:        startOfDay(*date, s.loc),
		TargetRole:  req.TargetRole,
		WorkspaceID: sess.WorkspaceID,
		CreatedBy:   sess.UserID,
		CreatedAt:   s.now(),
	}
	if err := s.reminders.Create(ctx, rem); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return rem, nil
}

// ListReminders returns pending reminders of the workspace, soonest first.
func (s *NotificationService) ListReminders(ctx context.Context, sess model.Session) ([]model.Reminder, error) {
	rs, err := s.reminders.List(ctx, sess.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Date.Before(rs[j].Date) })
	return rs, nil
}

func (s *NotificationService) DeleteReminder(ctx context.Context, sess model.Session, id string) error {
	if !model.HasRole(sess.Role, model.RoleAdmin, model.RoleManager) {
		return ErrForbidden
	}
	rem, err := s.reminders.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get reminder %s: %w", id, err)
	}
	if !model.InWorkspace(rem.WorkspaceID, sess.WorkspaceID) {
		return ErrWorkspaceMismatch
	}
	if err := s.reminders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return nil
}
