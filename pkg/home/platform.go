package home

import "context"

// Platform is the home-automation platform that owns the home and accessory
// registry. This abstraction allows the registry, light control and API to
// work against different backends (local database, Hue bridge) through a
// unified interface.
type Platform interface {
	// Homes returns every home with its accessories in platform order
	Homes(ctx context.Context) ([]Home, error)

	// AddHome creates a home with the given display name
	AddHome(ctx context.Context, name string) (*Home, error)

	// RemoveHome removes a home. Accessories are not removed implicitly.
	RemoveHome(ctx context.Context, homeID string) error

	// RemoveAccessory removes an accessory from its home
	RemoveAccessory(ctx context.Context, homeID, accessoryID string) error

	// ReadCharacteristic fetches the current value from the device
	ReadCharacteristic(ctx context.Context, ref CharacteristicRef) (any, error)

	// WriteCharacteristic pushes a value to the device
	WriteCharacteristic(ctx context.Context, ref CharacteristicRef, value any) error

	// EnableNotification turns change notifications on or off for a characteristic
	EnableNotification(ctx context.Context, ref CharacteristicRef, enable bool) error

	// Events returns the channel on which the platform reports changes.
	// Events may be produced from any goroutine.
	Events() <-chan Event

	// Close releases platform resources and closes the events channel
	Close()
}

// Commissioner runs the platform's accessory pairing flow.
type Commissioner interface {
	// PerformAccessorySetup blocks until the flow completes, is cancelled or fails
	PerformAccessorySetup(ctx context.Context, req SetupRequest) (*SetupResult, error)
}
