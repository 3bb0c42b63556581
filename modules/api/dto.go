package api

import "github.com/example/todo-sync/domain/task"

// ListTasksResponse is the HTTP response for listing tasks.
type ListTasksResponse struct {
	Tasks []task.Task `json:"tasks"`
	Total int         `json:"total"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
