package store

import (
	"time"

	"github.com/example/todo-sync/domain/task"
)

// Service names registered by the store module.
const (
	ServiceListTasks  = "list-tasks"
	ServiceCreateTask = "create-task"
	ServiceUpdateTask = "update-task"
	ServiceDeleteTask = "delete-task"
)

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	Status string `json:"status,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []task.Task `json:"tasks"`
	Total int         `json:"total"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Summary     string     `json:"Summary"`
	Description string     `json:"Description"`
	Deadline    *time.Time `json:"Deadline"`
}

// UpdateTaskRequest is the request for updating a task.
type UpdateTaskRequest struct {
	ID    int64      `json:"id"`
	Patch task.Patch `json:"patch"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID int64 `json:"id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}
