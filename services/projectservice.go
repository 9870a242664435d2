package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"insynchub/dto"
	"insynchub/model"
	"insynchub/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectService owns projects and the milestones and tasks embedded in
// them. Every nested change is a read-modify-write of the project's
// milestones array executed by ProjectRepository.Mutate.
type ProjectService struct {
	projects  repository.ProjectRepository
	reminders repository.ReminderRepository
	loc       *time.Location
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewProjectService(projects repository.ProjectRepository, reminders repository.ReminderRepository, loc *time.Location, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projects:  projects,
		reminders: reminders,
		loc:       loc,
		log:       log,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, sess model.Session, req dto.CreateProjectRequest) (*model.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("project name is required")
	}
	now := s.now()
	p := &model.Project{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		WorkspaceID: sess.WorkspaceID,
		CreatedBy:   sess.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Milestones:  []model.Milestone{},
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// ListProjects returns the workspace's projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, sess model.Session) ([]model.Project, error) {
	ps, err := s.projects.List(ctx, sess.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	return ps, nil
}

func (s *ProjectService) GetProject(ctx context.Context, sess model.Session, id string) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	if !model.InWorkspace(p.WorkspaceID, sess.WorkspaceID) {
		return nil, ErrWorkspaceMismatch
	}
	return p, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, sess model.Session, id string, req dto.UpdateProjectRequest) (*model.Project, error) {
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("project name cannot be empty")
		}
	}
	return s.mutate(ctx, sess, id, func(p *model.Project) error {
		if name != "" {
			p.Name = name
		}
		if req.Description != nil {
			p.Description = strings.TrimSpace(*req.Description)
		}
		return nil
	})
}

// DeleteProject removes the project with everything embedded in it.
func (s *ProjectService) DeleteProject(ctx context.Context, sess model.Session, id string) error {
	if !model.HasRole(sess.Role, model.RoleAdmin, model.RoleManager) {
		return ErrForbidden
	}
	if _, err := s.GetProject(ctx, sess, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func (s *ProjectService) AddMilestone(ctx context.Context, sess model.Session, projectID string, req dto.CreateMilestoneRequest) (*model.Milestone, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("milestone name is required")
	}
	due, err := parseDate(req.DueDate, s.loc)
	if err != nil {
		return nil, err
	}
	m := model.Milestone{
		ID:       s.newID(),
		Name:     name,
		DueDate:  due,
		Reminder: req.Reminder,
		Tasks:    []model.Task{},
	}

	p, err := s.mutate(ctx, sess, projectID, func(p *model.Project) error {
		p.Milestones = append(p.Milestones, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if m.Reminder {
		s.scheduleReminder(ctx, sess, p, m)
	}
	return &m, nil
}

func (s *ProjectService) UpdateMilestone(ctx context.Context, sess model.Session, projectID, milestoneID string, req dto.UpdateMilestoneRequest) (*model.Milestone, error) {
	var due *time.Time
	if req.DueDate != nil {
		var err error
		if due, err = parseDate(*req.DueDate, s.loc); err != nil {
			return nil, err
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, invalid("milestone name cannot be empty")
	}

	var (
		updated  model.Milestone
		schedule bool
	)
	p, err := s.mutate(ctx, sess, projectID, func(p *model.Project) error {
		ms, err := mapMilestone(p.Milestones, milestoneID, func(m *model.Milestone) error {
			before := *m
			if req.Name != nil {
				m.Name = strings.TrimSpace(*req.Name)
			}
			if req.DueDate != nil {
				m.DueDate = due
			}
			if req.Reminder != nil {
				m.Reminder = *req.Reminder
			}
			schedule = m.Reminder && (!before.Reminder || !sameTime(before.DueDate, m.DueDate))
			updated = *m
			return nil
		})
		if err != nil {
			return err
		}
		p.Milestones = ms
		return nil
	})
	if err != nil {
		return nil, err
	}
	if schedule {
		s.scheduleReminder(ctx, sess, p, updated)
	}
	return &updated, nil
}

func (s *ProjectService) DeleteMilestone(ctx context.Context, sess model.Session, projectID, milestoneID string) error {
	_, err := s.mutate(ctx, sess, projectID, func(p *model.Project) error {
		ms, err := removeMilestone(p.Milestones, milestoneID)
		if err != nil {
			return err
		}
		p.Milestones = ms
		return nil
	})
	return err
}

func (s *ProjectService) AddTask(ctx context.Context, sess model.Session, projectID, milestoneID string, req dto.CreateTaskRequest) (*model.Task, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("task name is required")
	}
	due, err := parseDate(req.DueDate, s.loc)
	if err != nil {
		return nil, err
	}
	t := model.Task{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		DueDate:     due,
		Completed:   false,
	}

	_, err = s.mutate(ctx, sess, projectID, func(p *model.Project) error {
		ms, err := mapMilestone(p.Milestones, milestoneID, func(m *model.Milestone) error {
			m.Tasks = append(m.Tasks, t)
			return nil
		})
		if err != nil {
			return err
		}
		p.Milestones = ms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *ProjectService) UpdateTask(ctx context.Context, sess model.Session, projectID, milestoneID, taskID string, req dto.UpdateTaskRequest) (*model.Task, error) {
	upd, err := s.parseTaskUpdate(req)
	if err != nil {
		return nil, err
	}

	var updated model.Task
	_, err = s.mutate(ctx, sess, projectID, func(p *model.Project) error {
		now := s.now()
		ms, err := mapMilestone(p.Milestones, milestoneID, func(m *model.Milestone) error {
			for i := range m.Tasks {
				if m.Tasks[i].ID == taskID {
					m.Tasks[i] = applyTaskUpdate(m.Tasks[i], upd, now)
					updated = m.Tasks[i]
					return nil
				}
			}
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		})
		if err != nil {
			return err
		}
		p.Milestones = ms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProjectService) DeleteTask(ctx context.Context, sess model.Session, projectID, milestoneID, taskID string) error {
	_, err := s.mutate(ctx, sess, projectID, func(p *model.Project) error {
		ms, err := mapMilestone(p.Milestones, milestoneID, func(m *model.Milestone) error {
			tasks := make([]model.Task, 0, len(m.Tasks))
			for _, t := range m.Tasks {
				if t.ID != taskID {
					tasks = append(tasks, t)
				}
			}
			if len(tasks) == len(m.Tasks) {
				return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
			}
			m.Tasks = tasks
			return nil
		})
		if err != nil {
			return err
		}
		p.Milestones = ms
		return nil
	})
	return err
}

// mutate wraps fn with the workspace ownership check and the updatedAt
// stamp, all inside the repository transaction.
func (s *ProjectService) mutate(ctx context.Context, sess model.Session, projectID string, fn func(p *model.Project) error) (*model.Project, error) {
	p, err := s.projects.Mutate(ctx, projectID, func(p *model.Project) error {
		if !model.InWorkspace(p.WorkspaceID, sess.WorkspaceID) {
			return ErrWorkspaceMismatch
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", projectID, err)
	}
	return p, nil
}

func (s *ProjectService) scheduleReminder(ctx context.Context, sess model.Session, p *model.Project, m model.Milestone) {
	if m.DueDate == nil {
		return
	}
	workspace := p.WorkspaceID
	if workspace == "" {
		workspace = model.LegacyWorkspace
	}
	rem := &model.Reminder{
		ID:          s.newID(),
		Title:       "Milestone due: " + m.Name,
		Message:     fmt.Sprintf("Milestone %q of project %q is due today.", m.Name, p.Name),
		Date:        startOfDay(*m.DueDate, s.loc),
		TargetRole:  model.RoleAll,
		WorkspaceID: workspace,
		ProjectID:   p.ID,
		MilestoneID: m.ID,
		CreatedBy:   sess.UserID,
		CreatedAt:   s.now(),
	}
	if err := s.reminders.Create(ctx, rem); err != nil {
		s.log.Warn("failed to schedule milestone reminder",
			zap.String("project_id", p.ID),
			zap.String("milestone_id", m.ID),
			zap.Error(err),
		)
	}
}

type taskUpdate struct {
	name        *string
	description *string
	setDue      bool
	dueDate     *time.Time
	completed   *bool
	completedAt *time.Time
}

func (s *ProjectService) parseTaskUpdate(req dto.UpdateTaskRequest) (taskUpdate, error) {
	upd := taskUpdate{description: req.Description, completed: req.Completed}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return upd, invalid("task name cannot be empty")
		}
		upd.name = &name
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate, s.loc)
		if err != nil {
			return upd, err
		}
		upd.setDue, upd.dueDate = true, due
	}
	if req.CompletedAt != nil {
		at, err := parseDate(*req.CompletedAt, s.loc)
		if err != nil {
			return upd, err
		}
		upd.completedAt = at
	}
	return upd, nil
}

// applyTaskUpdate keeps CompletedAt set exactly when Completed is true. A
// completion without an explicit timestamp is stamped with now unless the
// task already carries one; un-completing always clears it.
func applyTaskUpdate(t model.Task, upd taskUpdate, now time.Time) model.Task {
	if upd.name != nil {
		t.Name = *upd.name
	}
	if upd.description != nil {
		t.Description = strings.TrimSpace(*upd.description)
	}
	if upd.setDue {
		t.DueDate = upd.dueDate
	}

	if upd.completed != nil {
		t.Completed = *upd.completed
	}
	switch {
	case !t.Completed:
		t.CompletedAt = nil
	case upd.completedAt != nil:
		t.CompletedAt = upd.completedAt
	case t.CompletedAt == nil:
		stamp := now
		t.CompletedAt = &stamp
	}
	return t
}

// mapMilestone rewrites the milestone with id through fn and returns the new
// array, or ErrNotFound.
func mapMilestone(ms []model.Milestone, id string, fn func(m *model.Milestone) error) ([]model.Milestone, error) {
	out := make([]model.Milestone, len(ms))
	copy(out, ms)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		m := out[i]
		m.Tasks = append([]model.Task{}, m.Tasks...)
		if err := fn(&m); err != nil {
			return nil, err
		}
		out[i] = m
		return out, nil
	}
	return nil, fmt.Errorf("milestone %s: %w", id, ErrNotFound)
}

func removeMilestone(ms []model.Milestone, id string) ([]model.Milestone, error) {
	out := make([]model.Milestone, 0, len(ms))
	for _, m := range ms {
		if m.ID != id {
			out = append(out, m)
		}
	}
	if len(out) == len(ms) {
		return nil, fmt.Errorf("milestone %s: %w", id, ErrNotFound)
	}
	return out, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
