package store

import (
	"time"

	"github.com/example/todo-sync/domain/task"
)

// Record is the persisted row of the task list.
type Record struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Summary       string     `gorm:"column:summary;not null"`
	Description   string     `gorm:"column:description;not null;default:''"`
	TaskStatus    string     `gorm:"column:task_status;not null"`
	PendingDate   time.Time  `gorm:"column:pending_date;not null"`
	CompletedDate *time.Time `gorm:"column:completed_date"`
	Deadline      *time.Time `gorm:"column:deadline"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for Record.
func (Record) TableName() string {
	return "tasks"
}

// schema uses AUTOINCREMENT so ids of deleted rows are never handed out again.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	summary        TEXT     NOT NULL,
	description    TEXT     NOT NULL DEFAULT '',
	task_status    TEXT     NOT NULL CHECK (task_status IN ('Pending', 'Completed')),
	pending_date   DATETIME NOT NULL,
	completed_date DATETIME,
	deadline       DATETIME,
	created_at     DATETIME,
	updated_at     DATETIME
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (task_status);
`

func (r Record) toTask() task.Task {
	return task.Task{
		ID:            r.ID,
		Summary:       r.Summary,
		Description:   r.Description,
		Status:        task.Status(r.TaskStatus),
		PendingDate:   r.PendingDate,
		CompletedDate: r.CompletedDate,
		Deadline:      r.Deadline,
	}
}

func toTasks(records []*Record) []task.Task {
	out := make([]task.Task, 0, len(records))
	for _, r := range records {
		out = append(out, r.toTask())
	}
	return out
}
