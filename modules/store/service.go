package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/todo-sync/domain/task"
	"github.com/example/todo-sync/events"
	"github.com/go-monolith/mono"
)

// ErrInvalid prefixes every rejection of malformed input.
var ErrInvalid = errors.New("invalid task")

// listTasks handles the list-tasks service request. Reads go through the
// Redis cache when one is configured; concurrent misses share one query.
func (m *StoreModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.Status != "" && !task.Status(req.Status).Valid() {
		return ListTasksResponse{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, req.Status)
	}

	if m.cache != nil {
		tasks, ok, err := m.cache.Get(ctx, req.Status)
		if err != nil {
			m.logger.Warn("cache read failed", "status", req.Status, "error", err)
		}
		if ok {
			return ListTasksResponse{Tasks: tasks, Total: len(tasks)}, nil
		}
	}

	v, err, _ := m.loads.Do("list:"+req.Status, func() (any, error) {
		records, err := m.repo.FindAll(ctx, req.Status)
		if err != nil {
			return nil, err
		}
		tasks := toTasks(records)
		if m.cache != nil {
			if err := m.cache.Set(ctx, req.Status, tasks); err != nil {
				m.logger.Warn("cache write failed", "status", req.Status, "error", err)
			}
		}
		return tasks, nil
	})
	if err != nil {
		return ListTasksResponse{}, err
	}
	tasks := v.([]task.Task)
	return ListTasksResponse{Tasks: tasks, Total: len(tasks)}, nil
}

// createTask handles the create-task service request. The store stamps the
// pending date with its own clock.
func (m *StoreModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (task.Task, error) {
	if strings.TrimSpace(req.Summary) == "" {
		return task.Task{}, fmt.Errorf("%w: summary is required", ErrInvalid)
	}

	rec := &Record{
		Summary:     req.Summary,
		Description: req.Description,
		TaskStatus:  string(task.StatusPending),
		PendingDate: m.now(),
		Deadline:    req.Deadline,
	}
	if err := m.repo.Create(ctx, rec); err != nil {
		return task.Task{}, err
	}
	m.invalidate(ctx)

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:      rec.ID,
			Summary:     rec.Summary,
			Deadline:    rec.Deadline,
			PendingDate: rec.PendingDate,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("failed to publish TaskCreated event", "task_id", rec.ID, "error", err)
		}
	}

	return rec.toTask(), nil
}

// updateTask handles the update-task service request. Lifecycle dates are
// owned by the store: a status change is stamped here and any dates sent by
// the client are ignored.
func (m *StoreModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (task.Task, error) {
	p := req.Patch
	if p.Summary != nil && strings.TrimSpace(*p.Summary) == "" {
		return task.Task{}, fmt.Errorf("%w: summary is required", ErrInvalid)
	}
	if p.Status != nil && !p.Status.Valid() {
		return task.Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, *p.Status)
	}

	var changed []string
	before, after, err := m.repo.Mutate(ctx, req.ID, func(rec *Record) error {
		changed = applyPatch(rec, p, m.now())
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	m.invalidate(ctx)
	m.publishUpdate(before, after, changed)

	return after.toTask(), nil
}

// applyPatch writes p onto rec and returns the names of the fields it changed.
func applyPatch(rec *Record, p task.Patch, now time.Time) []string {
	var changed []string
	if p.Summary != nil && *p.Summary != rec.Summary {
		rec.Summary = *p.Summary
		changed = append(changed, "Summary")
	}
	if p.Description != nil && *p.Description != rec.Description {
		rec.Description = *p.Description
		changed = append(changed, "Description")
	}
	if p.Deadline != nil {
		dl := *p.Deadline
		rec.Deadline = &dl
		changed = append(changed, "Deadline")
	}
	if p.Status != nil && string(*p.Status) != rec.TaskStatus {
		rec.TaskStatus = string(*p.Status)
		if *p.Status == task.StatusCompleted {
			rec.CompletedDate = &now
		} else {
			rec.PendingDate = now
			rec.CompletedDate = nil
		}
		changed = append(changed, "TaskStatus")
	}
	return changed
}

func (m *StoreModule) publishUpdate(before, after *Record, changed []string) {
	if m.eventBus == nil || len(changed) == 0 {
		return
	}

	var err error
	switch {
	case before.TaskStatus != after.TaskStatus && after.TaskStatus == string(task.StatusCompleted):
		err = events.TaskCompletedV1.Publish(m.eventBus, events.TaskCompletedEvent{
			TaskID:      after.ID,
			Summary:     after.Summary,
			CompletedAt: *after.CompletedDate,
		}, nil)
	case before.TaskStatus != after.TaskStatus:
		err = events.TaskReworkedV1.Publish(m.eventBus, events.TaskReworkedEvent{
			TaskID:    after.ID,
			Summary:   after.Summary,
			PendingAt: after.PendingDate,
		}, nil)
	default:
		err = events.TaskUpdatedV1.Publish(m.eventBus, events.TaskUpdatedEvent{
			TaskID:    after.ID,
			Summary:   after.Summary,
			Fields:    changed,
			UpdatedAt: after.UpdatedAt,
		}, nil)
	}
	if err != nil {
		m.logger.Warn("failed to publish task event", "task_id", after.ID, "error", err)
	}
}

// deleteTask handles the delete-task service request.
func (m *StoreModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.repo.Delete(ctx, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}
	m.invalidate(ctx)

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.ID,
			DeletedAt: m.now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("failed to publish TaskDeleted event", "task_id", req.ID, "error", err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *StoreModule) invalidate(ctx context.Context) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(ctx); err != nil {
		m.logger.Warn("cache invalidation failed", "error", err)
	}
}
