package api

import (
	"errors"
	"strings"

	"github.com/example/todo-sync/modules/access"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	localRequestID  = "request_id"
	localPrincipal  = "principal"
)

// requestID echoes the caller's X-Request-ID or generates one.
func requestID(c *fiber.Ctx) error {
	id := c.Get(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(headerRequestID, id)
	c.Locals(localRequestID, id)
	return c.Next()
}

// requireToken authenticates the bearer token through the access module.
func (m *APIModule) requireToken(c *fiber.Ctx) error {
	token := ""
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		scheme, value, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization must use the Bearer scheme",
			})
		}
		token = strings.TrimSpace(value)
	}

	principal, err := m.access.Authenticate(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, access.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or missing bearer token",
			})
		}
		m.logger.Error("token validation failed", "request_id", c.Locals(localRequestID), "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "auth_unavailable",
			Message: "Token validation is unavailable",
		})
	}

	if principal != nil {
		c.Locals(localPrincipal, principal.Name)
	}
	return c.Next()
}
