package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ErrUnauthorized is returned for a missing or unknown bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// AccessPort is what other modules use to authenticate callers.
type AccessPort interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type accessAdapter struct {
	container mono.ServiceContainer
}

// NewAccessAdapter creates an AccessPort over the access module's services.
func NewAccessAdapter(container mono.ServiceContainer) AccessPort {
	if container == nil {
		panic("access adapter requires non-nil ServiceContainer")
	}
	return &accessAdapter{container: container}
}

// Authenticate returns the principal for token. In open mode it returns a nil
// principal and no error.
func (a *accessAdapter) Authenticate(ctx context.Context, token string) (*Principal, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceValidateToken,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceValidateToken, err)
	}

	if !resp.Valid {
		return nil, ErrUnauthorized
	}
	return resp.Principal, nil
}
