package home

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type write struct {
	ref   CharacteristicRef
	value any
}

// fakePlatform is an in-memory Platform with injectable failures.
type fakePlatform struct {
	mu sync.Mutex

	homes  []Home
	nextID int

	addErr             error
	removeHomeErr      error
	removeAccessoryErr map[string]error
	homesErr           error
	readErr            error
	writeErr           error
	notifyErr          error

	values map[string]any

	removeHomeCalls    int
	removedAccessories []string
	writes             []write
	notified           []CharacteristicRef

	// writeStarted and writeGate let a test hold a write in flight
	writeStarted chan struct{}
	writeGate    chan struct{}

	events chan Event
}

func newFakePlatform(homes ...Home) *fakePlatform {
	return &fakePlatform{
		homes:              homes,
		removeAccessoryErr: map[string]error{},
		values:             map[string]any{},
		events:             make(chan Event, 8),
	}
}

func (p *fakePlatform) Homes(ctx context.Context) ([]Home, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.homesErr != nil {
		return nil, p.homesErr
	}
	out := make([]Home, len(p.homes))
	copy(out, p.homes)
	return out, nil
}

func (p *fakePlatform) AddHome(ctx context.Context, name string) (*Home, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.addErr != nil {
		return nil, p.addErr
	}
	p.nextID++
	h := Home{ID: fmt.Sprintf("home-%d", p.nextID), Name: name}
	p.homes = append(p.homes, h)
	return &h, nil
}

func (p *fakePlatform) RemoveHome(ctx context.Context, homeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeHomeCalls++
	if p.removeHomeErr != nil {
		return p.removeHomeErr
	}
	for i := range p.homes {
		if p.homes[i].ID == homeID {
			p.homes = append(p.homes[:i], p.homes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (p *fakePlatform) RemoveAccessory(ctx context.Context, homeID, accessoryID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removedAccessories = append(p.removedAccessories, accessoryID)
	if err := p.removeAccessoryErr[accessoryID]; err != nil {
		return err
	}
	for i := range p.homes {
		if p.homes[i].ID != homeID {
			continue
		}
		accs := p.homes[i].Accessories
		for j := range accs {
			if accs[j].ID == accessoryID {
				p.homes[i].Accessories = append(accs[:j:j], accs[j+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func (p *fakePlatform) ReadCharacteristic(ctx context.Context, ref CharacteristicRef) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return nil, p.readErr
	}
	return p.values[ref.CharacteristicID], nil
}

func (p *fakePlatform) WriteCharacteristic(ctx context.Context, ref CharacteristicRef, value any) error {
	if p.writeStarted != nil {
		p.writeStarted <- struct{}{}
		<-p.writeGate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, write{ref: ref, value: value})
	if p.writeErr != nil {
		return p.writeErr
	}
	p.values[ref.CharacteristicID] = value
	return nil
}

func (p *fakePlatform) EnableNotification(ctx context.Context, ref CharacteristicRef, enable bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notified = append(p.notified, ref)
	return p.notifyErr
}

func (p *fakePlatform) Events() <-chan Event {
	return p.events
}

func (p *fakePlatform) Close() {}

func (p *fakePlatform) writeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writes)
}

// lamp builds a light accessory with a power state characteristic.
func lamp(id, name string, value any) Accessory {
	return Accessory{
		ID:        id,
		HomeID:    "home-living",
		Name:      name,
		Category:  CategoryLightbulb,
		Reachable: true,
		Services: []Service{{
			ID:   id + "-svc",
			Type: ServiceTypeLightbulb,
			Characteristics: []Characteristic{{
				ID:       id + "-power",
				Type:     CharacteristicTypePowerState,
				Format:   FormatBool,
				Value:    value,
				Readable: true,
				Writable: true,
				Notifies: true,
			}},
		}},
	}
}

func sensor(id, name string) Accessory {
	return Accessory{
		ID:       id,
		HomeID:   "home-living",
		Name:     name,
		Category: CategorySensor,
		Services: []Service{{
			ID:   id + "-svc",
			Type: ServiceTypeSensor,
			Characteristics: []Characteristic{{
				ID:     id + "-temp",
				Type:   CharacteristicTypeTemperature,
				Format: FormatFloat,
			}},
		}},
	}
}

// receive waits briefly for one event.
func receive(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

// requireNoEvent asserts nothing is queued on ch.
func requireNoEvent(t *testing.T, ch chan Event) {
	t.Helper()
	select {
	case evt := <-ch:
		require.Failf(t, "unexpected event", "%+v", evt)
	default:
	}
}
