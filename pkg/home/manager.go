package home

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder observes registry and light operations, typically for metrics.
type Recorder interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
	ObservePowerState(accessoryID string, on bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, error, time.Duration) {}
func (noopRecorder) ObservePowerState(string, bool)                {}

type settings struct {
	recorder Recorder
}

// Option configures a Manager or Lights.
type Option func(*settings)

// WithRecorder reports every operation to r.
func WithRecorder(r Recorder) Option {
	return func(s *settings) {
		if r != nil {
			s.recorder = r
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{recorder: noopRecorder{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Manager is the registry facade over a Platform. It is constructed once at
// start-up and shared by the API and MCP surfaces.
//
// Every successful mutation publishes exactly one EventHomesChanged; failed
// mutations publish nothing. Platform-originated events are forwarded by Run.
type Manager struct {
	platform Platform
	broker   *Broker
	recorder Recorder
}

// NewManager creates a registry facade for the platform.
func NewManager(platform Platform, opts ...Option) *Manager {
	s := applyOptions(opts)
	return &Manager{
		platform: platform,
		broker:   NewBroker(),
		recorder: s.recorder,
	}
}

// Platform returns the underlying platform.
func (m *Manager) Platform() Platform {
	return m.platform
}

// Homes returns the platform's current homes. Errors, including missing
// authorization, yield an empty list; authorization changes arrive as events.
func (m *Manager) Homes(ctx context.Context) []Home {
	homes, err := m.platform.Homes(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to list homes")
		return []Home{}
	}
	if homes == nil {
		return []Home{}
	}
	return homes
}

// Home returns a single home by ID.
func (m *Manager) Home(ctx context.Context, id string) (*Home, error) {
	homes, err := m.platform.Homes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range homes {
		if homes[i].ID == id {
			return &homes[i], nil
		}
	}
	return nil, ErrNotFound
}

// CreateHome requests a new home with the given display name.
func (m *Manager) CreateHome(ctx context.Context, name string) (*Home, error) {
	start := time.Now()
	name = strings.TrimSpace(name)
	if name == "" {
		m.recorder.ObserveOperation("create_home", ErrInvalidName, time.Since(start))
		return nil, ErrInvalidName
	}

	h, err := m.platform.AddHome(ctx, name)
	m.recorder.ObserveOperation("create_home", err, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("Failed to create home")
		return nil, err
	}

	log.Info().Str("home", h.ID).Str("name", h.Name).Msg("Home created")
	m.notifyChanged(h.ID, "")
	return h, nil
}

// DeleteHome removes every accessory of the home concurrently, waits for all
// removals, then removes the home. Accessory failures are logged and do not
// stop the home removal; only the final step can fail.
func (m *Manager) DeleteHome(ctx context.Context, h Home) error {
	start := time.Now()

	var wg sync.WaitGroup
	for _, a := range h.Accessories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.platform.RemoveAccessory(ctx, h.ID, a.ID); err != nil {
				log.Warn().
					Err(err).
					Str("home", h.ID).
					Str("accessory", a.ID).
					Str("name", a.Name).
					Msg("Failed to remove accessory")
			}
		}()
	}
	wg.Wait()

	err := m.platform.RemoveHome(ctx, h.ID)
	m.recorder.ObserveOperation("delete_home", err, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("home", h.ID).Msg("Failed to remove home")
		return err
	}

	log.Info().Str("home", h.ID).Str("name", h.Name).Int("accessories", len(h.Accessories)).Msg("Home removed")
	m.notifyChanged(h.ID, "")
	return nil
}

// RemoveAccessory removes a single accessory from its home.
func (m *Manager) RemoveAccessory(ctx context.Context, h Home, a Accessory) error {
	start := time.Now()
	err := m.platform.RemoveAccessory(ctx, h.ID, a.ID)
	m.recorder.ObserveOperation("remove_accessory", err, time.Since(start))
	if err != nil {
		return err
	}

	log.Info().Str("home", h.ID).Str("accessory", a.ID).Msg("Accessory removed")
	m.notifyChanged(h.ID, a.ID)
	return nil
}

// Subscribe returns a channel that receives change notifications.
func (m *Manager) Subscribe() chan Event {
	return m.broker.Subscribe()
}

// Unsubscribe removes a subscription
func (m *Manager) Unsubscribe(ch chan Event) {
	m.broker.Unsubscribe(ch)
}

// Run forwards platform events to subscribers until ctx is done or the
// platform closes its event channel.
func (m *Manager) Run(ctx context.Context) error {
	events := m.platform.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case evt, ok := <-events:
			if !ok {
				return nil
			}
			m.handlePlatformEvent(evt)
		}
	}
}

func (m *Manager) handlePlatformEvent(evt Event) {
	switch evt.Type {
	case EventCharacteristicChanged:
		if on, ok := asBool(evt.Value); ok {
			m.recorder.ObservePowerState(evt.AccessoryID, on)
		}
		log.Debug().Str("accessory", evt.AccessoryID).Interface("value", evt.Value).Msg("Characteristic changed")
	case EventAuthorizationChanged:
		log.Info().Msg("Platform authorization status updated")
	default:
		log.Info().Str("type", string(evt.Type)).Str("home", evt.HomeID).Msg("Homes updated")
	}
	m.broker.Publish(evt)
}

// Close closes all subscriptions.
func (m *Manager) Close() {
	m.broker.Close()
}

func (m *Manager) notifyChanged(homeID, accessoryID string) {
	m.broker.Publish(Event{
		Type:        EventHomesChanged,
		HomeID:      homeID,
		AccessoryID: accessoryID,
		Timestamp:   time.Now(),
	})
}
