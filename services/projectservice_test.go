package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"insynchub/dto"
	"insynchub/model"
	"insynchub/repository"

	"go.uber.org/zap"
)

func newProjectService(t *testing.T) (*ProjectService, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewProjectService(store.Projects, store.Reminders, jakarta, zap.NewNop())
	svc.now = fixedClock(time.Date(2025, 6, 10, 9, 0, 0, 0, jakarta))
	return svc, store
}

func TestMilestoneAndTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	sess := sessionFor("ana", model.RoleManager, model.WorkspaceMedia)

	p, err := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "  Rebrand  "})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if p.Name != "Rebrand" || p.WorkspaceID != model.WorkspaceMedia {
		t.Fatalf("unexpected project %+v", p)
	}

	m1, err := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: "Design"})
	if err != nil {
		t.Fatalf("AddMilestone failed: %v", err)
	}
	m2, err := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: "Launch", DueDate: "2025-07-01"})
	if err != nil {
		t.Fatalf("AddMilestone failed: %v", err)
	}

	task, err := svc.AddTask(ctx, sess, p.ID, m1.ID, dto.CreateTaskRequest{Name: "Logo"})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("new task should be open: %+v", task)
	}

	done, err := svc.UpdateTask(ctx, sess, p.ID, m1.ID, task.ID, dto.UpdateTaskRequest{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(svc.now()) {
		t.Errorf("completed task should be stamped with now: %+v", done)
	}

	reopened, err := svc.UpdateTask(ctx, sess, p.ID, m1.ID, task.ID, dto.UpdateTaskRequest{Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if reopened.Completed || reopened.CompletedAt != nil {
		t.Errorf("reopened task should have no completedAt: %+v", reopened)
	}

	got, err := svc.GetProject(ctx, sess, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.Milestones) != 2 || got.Milestones[0].ID != m1.ID || got.Milestones[1].ID != m2.ID {
		t.Fatalf("milestones out of order: %+v", got.Milestones)
	}
	if len(got.Milestones[0].Tasks) != 1 || got.Milestones[1].Tasks == nil {
		t.Errorf("unexpected tasks: %+v", got.Milestones)
	}

	if err := svc.DeleteTask(ctx, sess, p.ID, m1.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := svc.DeleteMilestone(ctx, sess, p.ID, m1.ID); err != nil {
		t.Fatalf("DeleteMilestone failed: %v", err)
	}
	got, _ = svc.GetProject(ctx, sess, p.ID)
	if len(got.Milestones) != 1 || got.Milestones[0].ID != m2.ID {
		t.Errorf("expected only %s left, got %+v", m2.ID, got.Milestones)
	}
}

func TestCompletedAtExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	sess := sessionFor("ana", model.RoleStaff, model.WorkspaceLabs)

	p, _ := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "Lab"})
	m, _ := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: "M"})
	task, _ := svc.AddTask(ctx, sess, p.ID, m.ID, dto.CreateTaskRequest{Name: "T"})

	updated, err := svc.UpdateTask(ctx, sess, p.ID, m.ID, task.ID, dto.UpdateTaskRequest{
		Completed:   boolPtr(true),
		CompletedAt: strPtr("2025-06-01T10:00:00Z"),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(want) {
		t.Errorf("CompletedAt = %v, want %v", updated.CompletedAt, want)
	}

	// Renaming a completed task keeps its timestamp.
	renamed, err := svc.UpdateTask(ctx, sess, p.ID, m.ID, task.ID, dto.UpdateTaskRequest{Name: strPtr("T2")})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if renamed.CompletedAt == nil || !renamed.CompletedAt.Equal(want) {
		t.Errorf("rename changed CompletedAt to %v", renamed.CompletedAt)
	}
}

func TestApplyTaskUpdateInvariant(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	tests := []struct {
		name string
		task model.Task
		upd  taskUpdate
	}{
		{"complete open task", model.Task{}, taskUpdate{completed: boolPtr(true)}},
		{"reopen", model.Task{Completed: true, CompletedAt: &earlier}, taskUpdate{completed: boolPtr(false)}},
		{"timestamp without completion", model.Task{}, taskUpdate{completedAt: &earlier}},
		{"stale completed task without stamp", model.Task{Completed: true}, taskUpdate{name: strPtr("x")}},
		{"rename open task", model.Task{}, taskUpdate{name: strPtr("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyTaskUpdate(tt.task, tt.upd, now)
			if got.Completed != (got.CompletedAt != nil) {
				t.Errorf("completed=%v completedAt=%v", got.Completed, got.CompletedAt)
			}
		})
	}
}

func TestProjectWorkspaceMismatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	owner := sessionFor("ana", model.RoleAdmin, model.WorkspaceMedia)
	other := sessionFor("ben", model.RoleAdmin, model.WorkspaceLabs)

	p, _ := svc.CreateProject(ctx, owner, dto.CreateProjectRequest{Name: "Media only"})

	if _, err := svc.GetProject(ctx, other, p.ID); !errors.Is(err, ErrWorkspaceMismatch) {
		t.Errorf("GetProject: expected ErrWorkspaceMismatch, got %v", err)
	}
	if _, err := svc.AddMilestone(ctx, other, p.ID, dto.CreateMilestoneRequest{Name: "x"}); !errors.Is(err, ErrWorkspaceMismatch) {
		t.Errorf("AddMilestone: expected ErrWorkspaceMismatch, got %v", err)
	}
	if err := svc.DeleteProject(ctx, other, p.ID); !errors.Is(err, ErrWorkspaceMismatch) {
		t.Errorf("DeleteProject: expected ErrWorkspaceMismatch, got %v", err)
	}

	got, _ := svc.GetProject(ctx, owner, p.ID)
	if len(got.Milestones) != 0 {
		t.Errorf("rejected mutation changed the project: %+v", got.Milestones)
	}
	if list, _ := svc.ListProjects(ctx, other); len(list) != 0 {
		t.Errorf("labs lists media projects: %+v", list)
	}
}

func TestLegacyProjectBelongsToDefaultWorkspace(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)
	if err := store.Projects.Create(ctx, &model.Project{ID: "old", Name: "Before workspaces"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	insync := sessionFor("ana", model.RoleStaff, model.WorkspaceInSync)
	if _, err := svc.AddMilestone(ctx, insync, "old", dto.CreateMilestoneRequest{Name: "M"}); err != nil {
		t.Errorf("default workspace cannot update legacy project: %v", err)
	}
	list, _ := svc.ListProjects(ctx, insync)
	if len(list) != 1 {
		t.Errorf("default workspace lists %d projects, want 1", len(list))
	}

	media := sessionFor("ana", model.RoleStaff, model.WorkspaceMedia)
	if _, err := svc.GetProject(ctx, media, "old"); !errors.Is(err, ErrWorkspaceMismatch) {
		t.Errorf("expected ErrWorkspaceMismatch, got %v", err)
	}
}

func TestMissingNestedRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	sess := sessionFor("ana", model.RoleStaff, model.WorkspaceInSync)
	p, _ := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "P"})
	m, _ := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: "M"})

	if err := svc.DeleteMilestone(ctx, sess, p.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteMilestone: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddTask(ctx, sess, p.ID, "nope", dto.CreateTaskRequest{Name: "T"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddTask: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteTask(ctx, sess, p.ID, m.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddMilestone(ctx, sess, "nope", dto.CreateMilestoneRequest{Name: "M"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddMilestone: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectRequiresManager(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	staff := sessionFor("ana", model.RoleStaff, model.WorkspaceInSync)
	p, _ := svc.CreateProject(ctx, staff, dto.CreateProjectRequest{Name: "P"})

	if err := svc.DeleteProject(ctx, staff, p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	manager := sessionFor("mia", model.RoleManager, model.WorkspaceInSync)
	if err := svc.DeleteProject(ctx, manager, p.ID); err != nil {
		t.Errorf("DeleteProject failed: %v", err)
	}
}

func TestMilestoneReminderScheduling(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)
	sess := sessionFor("ana", model.RoleManager, model.WorkspaceMedia)
	p, _ := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "Campaign"})

	m, err := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{
		Name:     "Go live",
		DueDate:  "2025-06-20T15:30:00+07:00",
		Reminder: true,
	})
	if err != nil {
		t.Fatalf("AddMilestone failed: %v", err)
	}

	rs, _ := store.Reminders.List(ctx, model.WorkspaceMedia)
	if len(rs) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(rs))
	}
	r := rs[0]
	wantDate := time.Date(2025, 6, 20, 0, 0, 0, 0, jakarta)
	if !r.Date.Equal(wantDate) || r.TargetRole != model.RoleAll || r.MilestoneID != m.ID || r.ProjectID != p.ID {
		t.Errorf("unexpected reminder %+v", r)
	}

	// No due date, no reminder.
	if _, err := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: "Someday", Reminder: true}); err != nil {
		t.Fatalf("AddMilestone failed: %v", err)
	}
	// Moving the due date schedules again.
	if _, err := svc.UpdateMilestone(ctx, sess, p.ID, m.ID, dto.UpdateMilestoneRequest{DueDate: strPtr("2025-06-25")}); err != nil {
		t.Fatalf("UpdateMilestone failed: %v", err)
	}
	// Renaming does not.
	if _, err := svc.UpdateMilestone(ctx, sess, p.ID, m.ID, dto.UpdateMilestoneRequest{Name: strPtr("Launch")}); err != nil {
		t.Fatalf("UpdateMilestone failed: %v", err)
	}
	rs, _ = store.Reminders.List(ctx, model.WorkspaceMedia)
	if len(rs) != 2 {
		t.Errorf("expected 2 reminders, got %d", len(rs))
	}
}

func TestProjectValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	sess := sessionFor("ana", model.RoleStaff, model.WorkspaceInSync)

	if _, err := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	p, _ := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "P"})
	if _, err := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: "M", DueDate: "next week"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateProject(ctx, sess, p.ID, dto.UpdateProjectRequest{Name: strPtr("")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConcurrentTaskAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService(t)
	sess := sessionFor("ana", model.RoleManager, model.WorkspaceMedia)

	p, err := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "Launch"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	var milestones []string
	for _, name := range []string{"Design", "Build"} {
		m, err := svc.AddMilestone(ctx, sess, p.ID, dto.CreateMilestoneRequest{Name: name})
		if err != nil {
			t.Fatalf("AddMilestone failed: %v", err)
		}
		milestones = append(milestones, m.ID)
	}

	const perMilestone = 50
	var wg sync.WaitGroup
	errs := make(chan error, perMilestone*len(milestones))
	for _, mid := range milestones {
		for i := 0; i < perMilestone; i++ {
			wg.Add(1)
			go func(mid string, i int) {
				defer wg.Done()
				if _, err := svc.AddTask(ctx, sess, p.ID, mid, dto.CreateTaskRequest{Name: fmt.Sprintf("task %d", i)}); err != nil {
					errs <- err
				}
			}(mid, i)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("AddTask failed: %v", err)
	}

	got, err := svc.GetProject(ctx, sess, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	for _, m := range got.Milestones {
		if len(m.Tasks) != perMilestone {
			t.Errorf("milestone %s has %d tasks, want %d", m.Name, len(m.Tasks), perMilestone)
		}
	}
}

func TestUpdateProjectClearsDescription(t *testing.T) {
	ctx := context.Background()
	svc, store := newProjectService(t)
	sess := sessionFor("ana", model.RoleManager, model.WorkspaceMedia)

	p, _ := svc.CreateProject(ctx, sess, dto.CreateProjectRequest{Name: "Launch", Description: "Q3"})
	updated, err := svc.UpdateProject(ctx, sess, p.ID, dto.UpdateProjectRequest{Description: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	stored, _ := store.Projects.Get(ctx, p.ID)
	if updated.Description != "" || stored.Description != "" {
		t.Errorf("description not cleared: returned %q, stored %q", updated.Description, stored.Description)
	}
}
