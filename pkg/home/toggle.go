package home

import (
	"context"
	"sync"
)

// ToggleState is the state of a displayed light switch.
type ToggleState string

const (
	ToggleUnknown ToggleState = "unknown"
	ToggleKnown   ToggleState = "known"
	TogglePending ToggleState = "pending"
)

// ToggleView is a snapshot of a Toggle. While pending, On is the optimistic target.
type ToggleView struct {
	State ToggleState `json:"state"`
	On    bool        `json:"on"`
}

// Toggle tracks the displayed power state of one light:
//
//	Unknown --Load--> Known(v) --Flip--> Pending --ok--> Known(!v)
//	                                       |
//	                                       +--fail--> Known(v)
//
// A pending toggle rejects further flips.
type Toggle struct {
	lights *Lights
	light  Accessory

	mu    sync.Mutex
	state ToggleState
	on    bool
}

// NewToggle creates a toggle in the Unknown state.
func NewToggle(lights *Lights, light Accessory) *Toggle {
	return &Toggle{lights: lights, light: light, state: ToggleUnknown}
}

// Light returns the accessory the toggle controls.
func (t *Toggle) Light() Accessory {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.light
}

// SetLight replaces the accessory snapshot after a registry refresh.
func (t *Toggle) SetLight(a Accessory) {
	t.mu.Lock()
	t.light = a
	t.mu.Unlock()
}

// Load reads the power state from the device. A pending toggle is left alone.
func (t *Toggle) Load(ctx context.Context) (ToggleView, error) {
	light := t.Light()
	on, err := t.lights.PowerState(ctx, light)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		return t.viewLocked(), err
	}
	if t.state != TogglePending {
		t.state = ToggleKnown
		t.on = on
	}
	return t.viewLocked(), nil
}

// Flip writes the negation of the known state. On failure the previous value
// is restored.
func (t *Toggle) Flip(ctx context.Context) (ToggleView, error) {
	t.mu.Lock()
	switch t.state {
	case TogglePending:
		view := t.viewLocked()
		t.mu.Unlock()
		return view, ErrToggleBusy
	case ToggleUnknown:
		view := t.viewLocked()
		t.mu.Unlock()
		return view, ErrStateUnknown
	}
	previous := t.on
	t.state = TogglePending
	t.on = !previous
	light := t.light
	t.mu.Unlock()

	err := t.lights.SetPower(ctx, light, !previous)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = ToggleKnown
	if err != nil {
		t.on = previous
		return t.viewLocked(), err
	}
	return t.viewLocked(), nil
}

// Apply records a value reported by a change notification. It is ignored
// while a write is pending.
func (t *Toggle) Apply(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == TogglePending {
		return
	}
	t.state = ToggleKnown
	t.on = on
}

// View returns the current state.
func (t *Toggle) View() ToggleView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *Toggle) viewLocked() ToggleView {
	return ToggleView{State: t.state, On: t.on}
}
