package api

import (
	"context"
	"fmt"
	"time"

	"github.com/example/todo-sync/domain/task"
	"github.com/example/todo-sync/modules/access"
	"github.com/example/todo-sync/modules/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// TaskPort is the slice of the store the REST surface needs.
type TaskPort interface {
	task.Store
	List(ctx context.Context, status task.Status) ([]task.Task, error)
}

var _ TaskPort = (*store.ServiceAdapter)(nil)

// Config holds the HTTP server settings.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// APIModule exposes the task list over REST.
type APIModule struct {
	cfg    Config
	logger types.Logger
	app    *fiber.App
	tasks  TaskPort
	access access.AccessPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg Config, logger types.Logger) *APIModule {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	return &APIModule{
		cfg:    cfg,
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"store", "access"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "store":
		m.tasks = store.NewServiceAdapter(container)
	case "access":
		m.access = access.NewAccessAdapter(container)
	}
}

// newApp builds the Fiber application with middleware and routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           m.cfg.ReadTimeout,
		WriteTimeout:          m.cfg.WriteTimeout,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestID)
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${locals:request_id} | ${status} | ${latency} | ${method} ${path}\n",
	}))

	m.setupRoutes(app)
	return app
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.tasks == nil {
		return fmt.Errorf("store dependency not set")
	}
	if m.access == nil {
		return fmt.Errorf("access dependency not set")
	}

	m.app = m.newApp()

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	kind := "server_error"
	if code < fiber.StatusInternalServerError {
		kind = "invalid_request"
	}
	return c.Status(code).JSON(ErrorResponse{
		Error:   kind,
		Message: message,
	})
}
