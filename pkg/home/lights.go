package home

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Lights controls accessories that expose a light-bulb service.
type Lights struct {
	platform Platform
	recorder Recorder
}

// NewLights creates a light control adapter for the platform.
func NewLights(platform Platform, opts ...Option) *Lights {
	s := applyOptions(opts)
	return &Lights{platform: platform, recorder: s.recorder}
}

// IsLight reports whether the accessory exposes a light-bulb service.
func IsLight(a Accessory) bool {
	_, ok := a.Service(ServiceTypeLightbulb)
	return ok
}

// List returns the lights of a home in platform order.
func (l *Lights) List(h Home) []Accessory {
	lights := make([]Accessory, 0, len(h.Accessories))
	for _, a := range h.Accessories {
		if IsLight(a) {
			lights = append(lights, a)
		}
	}
	return lights
}

// CachedPowerState returns the last power state the platform reported for
// the light, without contacting the device.
func CachedPowerState(a Accessory) (on, known bool) {
	_, c, err := powerCharacteristic(a)
	if err != nil {
		return false, false
	}
	return asBool(c.Value)
}

// PowerState reads the current power state from the device.
func (l *Lights) PowerState(ctx context.Context, a Accessory) (bool, error) {
	ref, _, err := powerCharacteristic(a)
	if err != nil {
		return false, err
	}

	value, err := l.platform.ReadCharacteristic(ctx, ref)
	if err != nil {
		return false, err
	}

	on, ok := asBool(value)
	if !ok {
		return false, fmt.Errorf("%w: unexpected power state value %v", ErrOperationFailed, value)
	}
	l.recorder.ObservePowerState(a.ID, on)
	return on, nil
}

// Toggle writes the negation of the cached power state, treating an unknown
// value as off. It returns the value written.
func (l *Lights) Toggle(ctx context.Context, a Accessory) (bool, error) {
	ref, c, err := powerCharacteristic(a)
	if err != nil {
		return false, err
	}

	current, _ := asBool(c.Value)
	target := !current
	if err := l.write(ctx, a, ref, target, "toggle_light"); err != nil {
		return current, err
	}
	return target, nil
}

// SetPower writes an explicit power state.
func (l *Lights) SetPower(ctx context.Context, a Accessory, on bool) error {
	ref, _, err := powerCharacteristic(a)
	if err != nil {
		return err
	}
	return l.write(ctx, a, ref, on, "set_power")
}

// Observe enables change notifications for the light's power state. Changes
// are delivered as EventCharacteristicChanged through the Manager. Failures
// are logged only.
func (l *Lights) Observe(ctx context.Context, a Accessory) {
	ref, _, err := powerCharacteristic(a)
	if err != nil {
		return
	}
	if err := l.platform.EnableNotification(ctx, ref, true); err != nil {
		log.Warn().Err(err).Str("accessory", a.ID).Msg("Failed to enable notifications")
	}
}

func (l *Lights) write(ctx context.Context, a Accessory, ref CharacteristicRef, on bool, op string) error {
	start := time.Now()
	err := l.platform.WriteCharacteristic(ctx, ref, on)
	l.recorder.ObserveOperation(op, err, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("accessory", a.ID).Bool("target", on).Msg("Failed to write power state")
		return err
	}
	l.recorder.ObservePowerState(a.ID, on)
	return nil
}

// powerCharacteristic locates the power-state characteristic of the
// accessory's light-bulb service.
func powerCharacteristic(a Accessory) (CharacteristicRef, *Characteristic, error) {
	svc, ok := a.Service(ServiceTypeLightbulb)
	if !ok {
		return CharacteristicRef{}, nil, fmt.Errorf("%w: accessory %q has no light-bulb service", ErrNotFound, a.Name)
	}
	c, ok := svc.Characteristic(CharacteristicTypePowerState)
	if !ok {
		return CharacteristicRef{}, nil, fmt.Errorf("%w: accessory %q has no power state", ErrNotFound, a.Name)
	}
	ref := CharacteristicRef{
		HomeID:           a.HomeID,
		AccessoryID:      a.ID,
		ServiceID:        svc.ID,
		CharacteristicID: c.ID,
	}
	return ref, c, nil
}

// asBool coerces a platform value to a power state.
func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int:
		return b != 0, true
	case int64:
		return b != 0, true
	case uint8:
		return b != 0, true
	case float64:
		return b != 0, true
	default:
		return false, false
	}
}
