package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is stored.
type TaskCreatedEvent struct {
	TaskID      int64      `json:"task_id"`
	Summary     string     `json:"summary"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	PendingDate time.Time  `json:"pending_date"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted when user-editable fields change.
type TaskUpdatedEvent struct {
	TaskID    int64     `json:"task_id"`
	Summary   string    `json:"summary"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdatedV1 is the typed event definition for task edits.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskCompletedEvent is emitted when a task moves to Completed.
type TaskCompletedEvent struct {
	TaskID      int64     `json:"task_id"`
	Summary     string    `json:"summary"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.task.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"task", "TaskCompleted", "v1",
)

// TaskReworkedEvent is emitted when a completed task goes back to Pending.
type TaskReworkedEvent struct {
	TaskID    int64     `json:"task_id"`
	Summary   string    `json:"summary"`
	PendingAt time.Time `json:"pending_at"`
}

// TaskReworkedV1 is the typed event definition for rework.
// Subject: events.task.v1.task-reworked
var TaskReworkedV1 = helper.EventDefinition[TaskReworkedEvent](
	"task", "TaskReworked", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    int64     `json:"task_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
