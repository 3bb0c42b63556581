package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/todo-sync/domain/task"
)

// setupTestModule creates a store module over an in-memory database whose
// clock advances one minute per reading.
func setupTestModule(t *testing.T) *StoreModule {
	t.Helper()

	m := NewModule(Config{DBPath: ":memory:"}, newMockLogger())
	if err := m.useDB(setupTestDB(t)); err != nil {
		t.Fatalf("useDB() error = %v", err)
	}

	current := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
	return m
}

func createTestTask(t *testing.T, m *StoreModule, summary string) task.Task {
	t.Helper()
	deadline := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	created, err := m.createTask(context.Background(), CreateTaskRequest{
		Summary:  summary,
		Deadline: &deadline,
	}, nil)
	if err != nil {
		t.Fatalf("createTask() error = %v", err)
	}
	return created
}

func TestCreateTask(t *testing.T) {
	m := setupTestModule(t)

	created := createTestTask(t, m, "Write report")

	if created.ID != 1 {
		t.Errorf("expected ID 1, got %d", created.ID)
	}
	if created.Status != task.StatusPending {
		t.Errorf("expected status Pending, got %s", created.Status)
	}
	want := time.Date(2024, 3, 5, 9, 1, 0, 0, time.UTC)
	if !created.PendingDate.Equal(want) {
		t.Errorf("expected pending date %v, got %v", want, created.PendingDate)
	}
	if err := created.CheckConsistency(); err != nil {
		t.Errorf("created task is inconsistent: %v", err)
	}
}

func TestCreateTask_BlankSummary(t *testing.T) {
	m := setupTestModule(t)

	_, err := m.createTask(context.Background(), CreateTaskRequest{Summary: "   "}, nil)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestUpdateTask_CompleteAndRework(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()
	created := createTestTask(t, m, "Write report")

	// Client-supplied dates are ignored.
	clientTime := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	done, err := m.updateTask(ctx, UpdateTaskRequest{ID: created.ID, Patch: task.Complete(clientTime)}, nil)
	if err != nil {
		t.Fatalf("updateTask(complete) error = %v", err)
	}
	if done.Status != task.StatusCompleted {
		t.Errorf("expected Completed, got %s", done.Status)
	}
	if done.CompletedDate == nil || done.CompletedDate.Equal(clientTime) {
		t.Fatalf("expected store-stamped completion date, got %v", done.CompletedDate)
	}
	if !done.PendingDate.Equal(created.PendingDate) {
		t.Errorf("completion must keep pending date %v, got %v", created.PendingDate, done.PendingDate)
	}

	back, err := m.updateTask(ctx, UpdateTaskRequest{ID: created.ID, Patch: task.Rework(clientTime)}, nil)
	if err != nil {
		t.Fatalf("updateTask(rework) error = %v", err)
	}
	if back.Status != task.StatusPending {
		t.Errorf("expected Pending, got %s", back.Status)
	}
	if back.CompletedDate != nil {
		t.Errorf("expected completion date cleared, got %v", back.CompletedDate)
	}
	if !back.PendingDate.After(*done.CompletedDate) {
		t.Errorf("expected new pending date after %v, got %v", *done.CompletedDate, back.PendingDate)
	}
	if err := back.CheckConsistency(); err != nil {
		t.Errorf("reworked task is inconsistent: %v", err)
	}
}

func TestUpdateTask_Fields(t *testing.T) {
	m := setupTestModule(t)
	created := createTestTask(t, m, "Write report")

	summary := "Write final report"
	desc := "include Q1 numbers"
	updated, err := m.updateTask(context.Background(), UpdateTaskRequest{
		ID:    created.ID,
		Patch: task.Patch{Summary: &summary, Description: &desc},
	}, nil)
	if err != nil {
		t.Fatalf("updateTask() error = %v", err)
	}
	if updated.Summary != summary || updated.Description != desc {
		t.Errorf("unexpected fields: %+v", updated)
	}
	if updated.Status != task.StatusPending || !updated.PendingDate.Equal(created.PendingDate) {
		t.Errorf("edit must not touch lifecycle fields: %+v", updated)
	}
}

func TestUpdateTask_Errors(t *testing.T) {
	m := setupTestModule(t)
	created := createTestTask(t, m, "Write report")
	ctx := context.Background()

	blank := ""
	bogus := task.Status("Archived")

	tests := []struct {
		name    string
		req     UpdateTaskRequest
		wantErr error
	}{
		{"unknown id", UpdateTaskRequest{ID: 42, Patch: task.Complete(time.Now())}, ErrNotFound},
		{"blank summary", UpdateTaskRequest{ID: created.ID, Patch: task.Patch{Summary: &blank}}, ErrInvalid},
		{"unknown status", UpdateTaskRequest{ID: created.ID, Patch: task.Patch{Status: &bogus}}, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.updateTask(ctx, tt.req, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestListTasks(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()
	first := createTestTask(t, m, "first")
	createTestTask(t, m, "second")
	if _, err := m.updateTask(ctx, UpdateTaskRequest{ID: first.ID, Patch: task.Complete(time.Now())}, nil); err != nil {
		t.Fatalf("updateTask() error = %v", err)
	}

	all, err := m.listTasks(ctx, ListTasksRequest{}, nil)
	if err != nil {
		t.Fatalf("listTasks() error = %v", err)
	}
	if all.Total != 2 || len(all.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", all.Total)
	}

	pending, err := m.listTasks(ctx, ListTasksRequest{Status: "Pending"}, nil)
	if err != nil {
		t.Fatalf("listTasks(Pending) error = %v", err)
	}
	if pending.Total != 1 || pending.Tasks[0].Summary != "second" {
		t.Errorf("expected only the second task, got %+v", pending.Tasks)
	}

	if _, err := m.listTasks(ctx, ListTasksRequest{Status: "Archived"}, nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown status, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()
	created := createTestTask(t, m, "Write report")

	resp, err := m.deleteTask(ctx, DeleteTaskRequest{ID: created.ID}, nil)
	if err != nil {
		t.Fatalf("deleteTask() error = %v", err)
	}
	if !resp.Deleted {
		t.Error("expected Deleted = true")
	}

	if _, err := m.deleteTask(ctx, DeleteTaskRequest{ID: created.ID}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestApplyPatch_ChangedFields(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	rec := &Record{Summary: "same", TaskStatus: "Pending", PendingDate: now.Add(-time.Hour)}

	same := "same"
	if changed := applyPatch(rec, task.Patch{Summary: &same}, now); len(changed) != 0 {
		t.Errorf("expected no changes, got %v", changed)
	}

	changed := applyPatch(rec, task.Complete(now), now)
	if len(changed) != 1 || changed[0] != "TaskStatus" {
		t.Errorf("expected [TaskStatus], got %v", changed)
	}
	if rec.CompletedDate == nil || !rec.CompletedDate.Equal(now) {
		t.Errorf("expected completion date %v, got %v", now, rec.CompletedDate)
	}
}

func TestStoreModule_Health(t *testing.T) {
	m := NewModule(Config{}, newMockLogger())
	if status := m.Health(context.Background()); status.Healthy {
		t.Error("expected unhealthy status before Start")
	}

	m = setupTestModule(t)
	status := m.Health(context.Background())
	if !status.Healthy {
		t.Errorf("expected healthy status, got %q", status.Message)
	}
	if status.Details["cache"] != false {
		t.Errorf("expected cache disabled, got %v", status.Details["cache"])
	}
}
