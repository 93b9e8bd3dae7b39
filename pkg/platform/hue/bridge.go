// Package hue implements a home platform over a Philips Hue bridge.
package hue

import (
	"context"
	"errors"
	"fmt"

	"github.com/amimof/huego"

	"github.com/urmzd/homectl/pkg/home"
)

// Bridge is the subset of the Hue v1 API the platform uses.
type Bridge interface {
	GetGroupsContext(ctx context.Context) ([]huego.Group, error)
	CreateGroupContext(ctx context.Context, g huego.Group) (*huego.Response, error)
	UpdateGroupContext(ctx context.Context, id int, g huego.Group) (*huego.Response, error)
	DeleteGroupContext(ctx context.Context, id int) error
	GetLightsContext(ctx context.Context) ([]huego.Light, error)
	GetLightContext(ctx context.Context, id int) (*huego.Light, error)
	SetLightStateContext(ctx context.Context, id int, s huego.State) (*huego.Response, error)
	DeleteLightContext(ctx context.Context, id int) error
	FindLightsContext(ctx context.Context) (*huego.Response, error)
	GetNewLightsContext(ctx context.Context) (*huego.NewLight, error)
}

var _ Bridge = (*huego.Bridge)(nil)

// Connect returns a bridge client for host authenticated as user. A bridge
// without a user has not been paired yet.
func Connect(host, user string) (Bridge, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: hue bridge host not configured", home.ErrOperationFailed)
	}
	if user == "" {
		return nil, fmt.Errorf("%w: hue bridge user not configured", home.ErrUnauthorized)
	}
	return huego.New(host, user), nil
}

// Hue API error types
const (
	apiErrorUnauthorized     = 1
	apiErrorResourceNotFound = 3
)

// mapError converts bridge errors to platform errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *huego.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case apiErrorUnauthorized:
			return fmt.Errorf("%w: %s", home.ErrUnauthorized, apiErr.Description)
		case apiErrorResourceNotFound:
			return fmt.Errorf("%w: %s", home.ErrNotFound, apiErr.Description)
		}
	}
	return fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
}
