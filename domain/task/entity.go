package task

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is one of the two lifecycle states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is the core domain entity: a single entry of the remote task list.
// Field names on the wire follow the list columns.
type Task struct {
	ID            int64      `json:"Id"`
	Summary       string     `json:"Summary"`
	Description   string     `json:"Description"`
	Status        Status     `json:"TaskStatus"`
	PendingDate   time.Time  `json:"PendingDate"`
	CompletedDate *time.Time `json:"CompletedDate"`
	Deadline      *time.Time `json:"Deadline"`
}

// IsCompleted reports whether the task is in the Completed state.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// CheckConsistency verifies the status/completion-date pairing:
// CompletedDate is present if and only if the task is Completed.
func (t Task) CheckConsistency() error {
	if !t.Status.Valid() {
		return fmt.Errorf("task %d: unknown status %q", t.ID, t.Status)
	}
	if t.IsCompleted() && t.CompletedDate == nil {
		return fmt.Errorf("task %d: completed without completion date", t.ID)
	}
	if !t.IsCompleted() && t.CompletedDate != nil {
		return fmt.Errorf("task %d: pending with completion date", t.ID)
	}
	return nil
}

// Clone returns a deep copy so callers never share date pointers.
func (t Task) Clone() Task {
	c := t
	c.CompletedDate = cloneTime(t.CompletedDate)
	c.Deadline = cloneTime(t.Deadline)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NormalizeDeadline moves t to 23:59:00 of its calendar date in t's location.
func NormalizeDeadline(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 0, 0, t.Location())
}
