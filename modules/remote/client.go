// Package remote implements task.Store against a task list served over HTTP,
// either this project's own API or a compatible list host.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/todo-sync/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 10 * time.Second

// HostContext identifies the list host and the credential to present to it.
// Callers above the adapter treat it as opaque.
type HostContext struct {
	BaseURL string
	Token   string
}

// Client is an HTTP task.Store.
type Client struct {
	base    string
	token   string
	timeout time.Duration
	logger  types.Logger
}

var _ task.Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Context deadlines shorten it further.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger types.Logger) Option {
	return func(c *Client) { c.logger = logger.WithModule("remote") }
}

// NewClient creates a client for host.
func NewClient(host HostContext, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(host.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", host.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", host.BaseURL)
	}

	c := &Client{
		base:    strings.TrimRight(u.String(), "/") + "/api/v1/tasks",
		token:   host.Token,
		timeout: defaultTimeout,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListAll reads the whole list in one round trip.
func (c *Client) ListAll(ctx context.Context) ([]task.Task, error) {
	return c.List(ctx, "")
}

// List reads the tasks with status, or all tasks when status is empty.
func (c *Client) List(ctx context.Context, status task.Status) ([]task.Task, error) {
	const op = "list"
	target := c.base
	if status != "" {
		target += "?status=" + url.QueryEscape(string(status))
	}

	body, err := c.do(ctx, op, fiber.Get(target), fiber.StatusOK)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeList(body)
	if err != nil {
		return nil, task.NewRemoteError(op, task.KindServer, err)
	}
	return tasks, nil
}

// Create posts draft and returns the record the host stored.
func (c *Client) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	const op = "create"
	body, err := c.do(ctx, op, fiber.Post(c.base).JSON(draft), fiber.StatusCreated, fiber.StatusOK)
	if err != nil {
		return task.Task{}, err
	}
	created, err := decodeRecord(body)
	if err != nil {
		return task.Task{}, task.NewRemoteError(op, task.KindServer, err)
	}
	return created, nil
}

// Update sends patch for task id.
func (c *Client) Update(ctx context.Context, id int64, patch task.Patch) error {
	_, err := c.do(ctx, "update", fiber.Patch(c.item(id)).JSON(patch), fiber.StatusNoContent, fiber.StatusOK)
	return err
}

// Remove deletes task id.
func (c *Client) Remove(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "remove", fiber.Delete(c.item(id)), fiber.StatusNoContent, fiber.StatusOK)
	return err
}

func (c *Client) item(id int64) string {
	return c.base + "/" + strconv.FormatInt(id, 10)
}

// do sends the request built in a and returns the body when the status is
// one of want.
func (c *Client) do(ctx context.Context, op string, a *fiber.Agent, want ...int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, task.NewRemoteError(op, contextKind(err), err)
	}

	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, task.NewRemoteError(op, task.KindTimeout, context.DeadlineExceeded)
	}

	reqID := uuid.NewString()
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Set("X-Request-ID", reqID)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	a.Timeout(timeout)

	start := time.Now()
	code, body, errs := a.Bytes()
	c.logger.Debug("remote request", "op", op, "request_id", reqID, "status", code, "duration", time.Since(start))

	if len(errs) > 0 {
		err := errors.Join(errs...)
		return nil, task.NewRemoteError(op, transportKind(ctx, err), err)
	}
	for _, w := range want {
		if code == w {
			return body, nil
		}
	}
	return nil, task.NewRemoteError(op, statusKind(code), statusError(code, body))
}

func contextKind(err error) task.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return task.KindTimeout
	}
	return task.KindNetwork
}

func transportKind(ctx context.Context, err error) task.ErrorKind {
	switch {
	case errors.Is(err, fasthttp.ErrTimeout), errors.Is(err, fasthttp.ErrDialTimeout):
		return task.KindTimeout
	case ctx.Err() != nil:
		return contextKind(ctx.Err())
	default:
		return task.KindNetwork
	}
}

func statusKind(code int) task.ErrorKind {
	switch {
	case code == fiber.StatusUnauthorized, code == fiber.StatusForbidden:
		return task.KindPermission
	case code == fiber.StatusNotFound:
		return task.KindNotFound
	case code == fiber.StatusBadRequest, code == fiber.StatusUnprocessableEntity, code == fiber.StatusConflict:
		return task.KindInvalid
	case code == fiber.StatusRequestTimeout, code == fiber.StatusGatewayTimeout:
		return task.KindTimeout
	default:
		return task.KindServer
	}
}

// statusError keeps the host's message when it sent one.
func statusError(code int, body []byte) error {
	if msg := errorMessage(body); msg != "" {
		return fmt.Errorf("status %d: %s", code, msg)
	}
	return fmt.Errorf("status %d", code)
}
