package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/example/todo-sync/domain/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	api := app.Group("/api/v1", m.requireToken)

	tasks := api.Group("/tasks")
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Patch("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.cfg.Port,
		},
	})
}

// listTasks handles GET /api/v1/tasks[?status=Pending|Completed].
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	status := task.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "status must be Pending or Completed",
		})
	}

	tasks, err := m.tasks.List(c.UserContext(), status)
	if err != nil {
		return m.remoteFailure(c, "list_failed", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}

	return c.JSON(ListTasksResponse{
		Tasks: tasks,
		Total: len(tasks),
	})
}

// createTask handles POST /api/v1/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var draft task.Draft
	if err := json.Unmarshal(c.Body(), &draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if strings.TrimSpace(draft.Summary) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Summary is required",
		})
	}

	created, err := m.tasks.Create(c.UserContext(), draft.Normalized())
	if err != nil {
		return m.remoteFailure(c, "create_failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// updateTask handles PATCH /api/v1/tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var patch task.Patch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}
	if patch.IsEmpty() {
		return c.SendStatus(fiber.StatusNoContent)
	}

	if err := m.tasks.Update(c.UserContext(), id, patch); err != nil {
		return m.remoteFailure(c, "update_failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// deleteTask handles DELETE /api/v1/tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := m.tasks.Remove(c.UserContext(), id); err != nil {
		return m.remoteFailure(c, "delete_failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func taskID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "task id must be a positive integer")
	}
	return int64(id), nil
}

// remoteFailure maps a store failure to an HTTP status.
func (m *APIModule) remoteFailure(c *fiber.Ctx, code string, err error) error {
	status := fiber.StatusInternalServerError
	var re *task.RemoteError
	if errors.As(err, &re) {
		switch re.Kind {
		case task.KindInvalid:
			status = fiber.StatusBadRequest
			code = "validation_error"
		case task.KindNotFound:
			status = fiber.StatusNotFound
			code = "not_found"
		case task.KindPermission:
			status = fiber.StatusForbidden
			code = "forbidden"
		case task.KindTimeout:
			status = fiber.StatusGatewayTimeout
		case task.KindNetwork:
			status = fiber.StatusServiceUnavailable
		}
	}

	if status >= fiber.StatusInternalServerError {
		m.logger.Error("store call failed", "request_id", c.Locals(localRequestID), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
