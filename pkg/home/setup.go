package home

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// AccessorySetup adds accessories to a home through the platform's
// commissioning flow.
type AccessorySetup struct {
	commissioner Commissioner
	manager      *Manager
}

// NewAccessorySetup creates a commissioning adapter that notifies through manager.
func NewAccessorySetup(commissioner Commissioner, manager *Manager) *AccessorySetup {
	return &AccessorySetup{commissioner: commissioner, manager: manager}
}

// AddAccessory runs the commissioning flow scoped to h and blocks until it
// completes, is cancelled or fails.
func (s *AccessorySetup) AddAccessory(ctx context.Context, h Home, req SetupRequest) (*SetupResult, error) {
	start := time.Now()
	req.HomeID = h.ID

	result, err := s.commissioner.PerformAccessorySetup(ctx, req)
	if err != nil && errors.Is(err, context.Canceled) && !errors.Is(err, ErrCancelled) {
		err = fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	s.manager.recorder.ObserveOperation("add_accessory", err, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("home", h.ID).Msg("Failed to set up accessory")
		return nil, err
	}
	if result == nil {
		result = &SetupResult{}
	}

	log.Info().Str("home", h.ID).Int("accessories", len(result.Accessories)).Msg("Accessory setup completed")
	s.manager.notifyChanged(h.ID, firstAccessoryID(result))
	return result, nil
}

func firstAccessoryID(r *SetupResult) string {
	if len(r.Accessories) == 0 {
		return ""
	}
	return r.Accessories[0].ID
}
