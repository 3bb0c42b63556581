package access

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// AccessModule answers bearer-token checks for the hosting context.
type AccessModule struct {
	tokens   []string
	registry *Registry
	logger   types.Logger
}

var _ mono.Module = (*AccessModule)(nil)
var _ mono.ServiceProviderModule = (*AccessModule)(nil)
var _ mono.HealthCheckableModule = (*AccessModule)(nil)

// NewModule creates an AccessModule accepting tokens ("name:token" entries).
func NewModule(tokens []string, logger types.Logger) *AccessModule {
	return &AccessModule{
		tokens:   tokens,
		registry: NewRegistry(),
		logger:   logger.WithModule("access"),
	}
}

func (m *AccessModule) Name() string {
	return "access"
}

// RegisterServices registers the validate-token service.
func (m *AccessModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceValidateToken,
		json.Unmarshal,
		json.Marshal,
		m.validateToken,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceValidateToken, err)
	}

	m.logger.Info("registered services", "services", []string{ServiceValidateToken})
	return nil
}

func (m *AccessModule) validateToken(_ context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	if m.registry.Len() == 0 {
		return ValidateTokenResponse{Valid: true, Open: true}, nil
	}
	p, ok := m.registry.Lookup(req.Token)
	if !ok {
		return ValidateTokenResponse{Valid: false}, nil
	}
	return ValidateTokenResponse{Valid: true, Principal: &p}, nil
}

// Start loads the configured tokens.
func (m *AccessModule) Start(_ context.Context) error {
	if err := m.registry.Load(m.tokens); err != nil {
		return fmt.Errorf("failed to load access tokens: %w", err)
	}
	if m.registry.Len() == 0 {
		m.logger.Warn("no access tokens configured, API is open")
	} else {
		m.logger.Info("module started", "tokens", m.registry.Len())
	}
	return nil
}

func (m *AccessModule) Stop(_ context.Context) error {
	m.logger.Info("module stopped")
	return nil
}

func (m *AccessModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"tokens": m.registry.Len(),
			"open":   m.registry.Len() == 0,
		},
	}
}
