package display

import (
	"time"

	"github.com/example/todo-sync/domain/task"
)

// Row is a task with its dates rendered and its urgency computed.
type Row struct {
	ID            int64        `json:"id" yaml:"id"`
	Summary       string       `json:"summary" yaml:"summary"`
	Description   string       `json:"description,omitempty" yaml:"description,omitempty"`
	Status        task.Status  `json:"status" yaml:"status"`
	Deadline      string       `json:"deadline" yaml:"deadline"`
	PendingDate   string       `json:"pending_date" yaml:"pending_date"`
	CompletedDate string       `json:"completed_date,omitempty" yaml:"completed_date,omitempty"`
	Urgency       UrgencyClass `json:"urgency" yaml:"urgency"`
}

// NewRow prepares t for display at now. Completed tasks are never urgent.
func NewRow(t task.Task, now time.Time) Row {
	r := Row{
		ID:            t.ID,
		Summary:       t.Summary,
		Description:   t.Description,
		Status:        t.Status,
		Deadline:      FormatDate(t.Deadline),
		PendingDate:   FormatDate(&t.PendingDate),
		CompletedDate: FormatDate(t.CompletedDate),
		Urgency:       Normal,
	}
	if !t.IsCompleted() {
		r.Urgency = Urgency(t.Deadline, now)
	}
	return r
}

// Rows applies NewRow to every task.
func Rows(tasks []task.Task, now time.Time) []Row {
	out := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewRow(t, now))
	}
	return out
}
