package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/example/todo-sync/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ServiceAdapter implements task.Store over the store module's request-reply
// services. Modules that depend on "store" build one from the container they
// receive in SetDependencyServiceContainer.
type ServiceAdapter struct {
	container mono.ServiceContainer
}

var _ task.Store = (*ServiceAdapter)(nil)

// NewServiceAdapter creates a new adapter for store services.
func NewServiceAdapter(container mono.ServiceContainer) *ServiceAdapter {
	if container == nil {
		panic("store adapter requires non-nil ServiceContainer")
	}
	return &ServiceAdapter{container: container}
}

// ListAll fetches every task via the list-tasks service.
func (a *ServiceAdapter) ListAll(ctx context.Context) ([]task.Task, error) {
	return a.List(ctx, "")
}

// List fetches the tasks with the given status, or all of them when status is empty.
func (a *ServiceAdapter) List(ctx context.Context, status task.Status) ([]task.Task, error) {
	req := ListTasksRequest{Status: string(status)}
	var resp ListTasksResponse
	if err := a.call(ctx, ServiceListTasks, &req, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// Create stores a new task via the create-task service.
func (a *ServiceAdapter) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	req := CreateTaskRequest{
		Summary:     draft.Summary,
		Description: draft.Description,
		Deadline:    draft.Deadline,
	}
	var resp task.Task
	if err := a.call(ctx, ServiceCreateTask, &req, &resp); err != nil {
		return task.Task{}, err
	}
	return resp, nil
}

// Update patches a task via the update-task service. The stored record in
// the reply is discarded; callers refetch to observe server-stamped dates.
func (a *ServiceAdapter) Update(ctx context.Context, id int64, patch task.Patch) error {
	req := UpdateTaskRequest{ID: id, Patch: patch}
	var resp task.Task
	return a.call(ctx, ServiceUpdateTask, &req, &resp)
}

// Remove deletes a task via the delete-task service.
func (a *ServiceAdapter) Remove(ctx context.Context, id int64) error {
	req := DeleteTaskRequest{ID: id}
	var resp DeleteTaskResponse
	if err := a.call(ctx, ServiceDeleteTask, &req, &resp); err != nil {
		return err
	}
	if !resp.Deleted {
		return task.NewRemoteError(ServiceDeleteTask, task.KindServer, errors.New("task not deleted"))
	}
	return nil
}

func (a *ServiceAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return mapServiceError(service, err)
	}
	return nil
}

// mapServiceError classifies a service failure. Errors cross the service
// boundary as text, so the kind is recovered from the message.
func mapServiceError(service string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return task.NewRemoteError(service, task.KindTimeout, err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, ErrNotFound.Error()):
		return task.NewRemoteError(service, task.KindNotFound, err)
	case strings.Contains(msg, ErrInvalid.Error()):
		return task.NewRemoteError(service, task.KindInvalid, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return task.NewRemoteError(service, task.KindTimeout, err)
	case strings.Contains(msg, "no responders"), strings.Contains(msg, "connection"):
		return task.NewRemoteError(service, task.KindNetwork, err)
	case strings.Contains(msg, "permission"), strings.Contains(msg, "unauthorized"):
		return task.NewRemoteError(service, task.KindPermission, err)
	default:
		return task.NewRemoteError(service, task.KindServer, err)
	}
}
