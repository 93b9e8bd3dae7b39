package home

import "context"

// NullPlatform is an unauthorized platform used when no backend is available.
// It allows the API to run in limited mode.
type NullPlatform struct {
	events chan Event
}

// NewNullPlatform creates a new NullPlatform.
func NewNullPlatform() *NullPlatform {
	events := make(chan Event)
	// Nothing is ever sent; a closed channel lets Manager.Run return at once
	close(events)
	return &NullPlatform{events: events}
}

func (p *NullPlatform) Homes(ctx context.Context) ([]Home, error) {
	return nil, ErrUnauthorized
}

func (p *NullPlatform) AddHome(ctx context.Context, name string) (*Home, error) {
	return nil, ErrUnauthorized
}

func (p *NullPlatform) RemoveHome(ctx context.Context, homeID string) error {
	return ErrUnauthorized
}

func (p *NullPlatform) RemoveAccessory(ctx context.Context, homeID, accessoryID string) error {
	return ErrUnauthorized
}

func (p *NullPlatform) ReadCharacteristic(ctx context.Context, ref CharacteristicRef) (any, error) {
	return nil, ErrUnauthorized
}

func (p *NullPlatform) WriteCharacteristic(ctx context.Context, ref CharacteristicRef, value any) error {
	return ErrUnauthorized
}

func (p *NullPlatform) EnableNotification(ctx context.Context, ref CharacteristicRef, enable bool) error {
	return ErrUnauthorized
}

func (p *NullPlatform) PerformAccessorySetup(ctx context.Context, req SetupRequest) (*SetupResult, error) {
	return nil, ErrUnauthorized
}

func (p *NullPlatform) Events() <-chan Event {
	return p.events
}

func (p *NullPlatform) Close() {}
