// Package local implements a home platform backed by the homectl database.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/homectl/pkg/db"
	"github.com/urmzd/homectl/pkg/home"
	"github.com/urmzd/homectl/pkg/home/schema"
)

const eventBuffer = 64

// Platform keeps the home registry of one profile in the database.
type Platform struct {
	db        *db.DB
	profileID int64
	validator *schema.Validator

	events   chan home.Event
	eventsMu sync.RWMutex
	closed   bool
}

// New creates a local platform for the given profile.
func New(database *db.DB, profileID int64) *Platform {
	return &Platform{
		db:        database,
		profileID: profileID,
		validator: schema.NewValidator(),
		events:    make(chan home.Event, eventBuffer),
	}
}

func (p *Platform) Homes(ctx context.Context) ([]home.Home, error) {
	records, err := p.db.Homes().List(ctx, p.profileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
	}

	homes := make([]home.Home, 0, len(records))
	for _, r := range records {
		accessories, err := p.db.Accessories().ListByHome(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
		}
		homes = append(homes, toHome(r, accessories))
	}
	return homes, nil
}

func (p *Platform) AddHome(ctx context.Context, name string) (*home.Home, error) {
	r := &db.HomeRecord{ProfileID: p.profileID, Name: name}
	if err := p.db.Homes().Create(ctx, r); err != nil {
		if errors.Is(err, db.ErrHomeExists) {
			return nil, home.ErrDuplicateName
		}
		return nil, fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
	}
	h := toHome(r, nil)
	return &h, nil
}

func (p *Platform) RemoveHome(ctx context.Context, homeID string) error {
	if _, err := p.home(ctx, homeID); err != nil {
		return err
	}
	if err := p.db.Homes().Delete(ctx, homeID); err != nil {
		return mapError(err)
	}
	return nil
}

func (p *Platform) RemoveAccessory(ctx context.Context, homeID, accessoryID string) error {
	a, err := p.db.Accessories().Get(ctx, accessoryID)
	if err != nil {
		return mapError(err)
	}
	if a.HomeID != homeID {
		return fmt.Errorf("%w: accessory %s is not in home %s", home.ErrNotFound, accessoryID, homeID)
	}
	if err := p.db.Accessories().Delete(ctx, accessoryID); err != nil {
		return mapError(err)
	}
	return nil
}

func (p *Platform) ReadCharacteristic(ctx context.Context, ref home.CharacteristicRef) (any, error) {
	c, err := p.characteristic(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !c.Readable {
		return nil, fmt.Errorf("%w: characteristic %s is not readable", home.ErrOperationFailed, c.Type)
	}
	return decodeValue(c.Value), nil
}

func (p *Platform) WriteCharacteristic(ctx context.Context, ref home.CharacteristicRef, value any) error {
	c, err := p.characteristic(ctx, ref)
	if err != nil {
		return err
	}
	if !c.Writable {
		return fmt.Errorf("%w: characteristic %s is not writable", home.ErrOperationFailed, c.Type)
	}
	if err := p.validator.ValidateFormat(c.Format, value); err != nil {
		return fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
	}
	if err := p.db.Accessories().SetCharacteristic(ctx, c.ID, raw); err != nil {
		return mapError(err)
	}

	if c.Notify {
		refCopy := ref
		p.emit(home.Event{
			Type:           home.EventCharacteristicChanged,
			HomeID:         ref.HomeID,
			AccessoryID:    ref.AccessoryID,
			Characteristic: &refCopy,
			Value:          decodeValue(raw),
		})
	}
	return nil
}

func (p *Platform) EnableNotification(ctx context.Context, ref home.CharacteristicRef, enable bool) error {
	c, err := p.characteristic(ctx, ref)
	if err != nil {
		return err
	}
	if err := p.db.Accessories().SetNotify(ctx, c.ID, enable); err != nil {
		return mapError(err)
	}
	return nil
}

// PerformAccessorySetup validates the manual pairing code and registers an
// accessory built from the requested category.
func (p *Platform) PerformAccessorySetup(ctx context.Context, req home.SetupRequest) (*home.SetupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code, err := ParseSetupCode(req.SetupCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", home.ErrInvalidSetupCode, err)
	}
	if _, err := p.home(ctx, req.HomeID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("Accessory %02d", code.Discriminator)
	}
	record, err := newAccessory(req.HomeID, name, req.Category)
	if err != nil {
		return nil, err
	}
	if code.VendorID != 0 {
		record.Manufacturer = fmt.Sprintf("0x%04X", code.VendorID)
		record.Model = fmt.Sprintf("0x%04X", code.ProductID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.db.Accessories().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
	}

	log.Info().
		Str("home", req.HomeID).
		Str("accessory", record.ID).
		Str("category", record.Category).
		Uint8("discriminator", code.Discriminator).
		Msg("Accessory commissioned")

	return &home.SetupResult{Accessories: []home.Accessory{toAccessory(record)}}, nil
}

func (p *Platform) Events() <-chan home.Event {
	return p.events
}

// Close closes the events channel. Later writes emit nothing.
func (p *Platform) Close() {
	p.eventsMu.Lock()
	defer p.eventsMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.events)
}

func (p *Platform) emit(evt home.Event) {
	evt.Timestamp = time.Now()

	p.eventsMu.RLock()
	defer p.eventsMu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- evt:
	default:
		log.Warn().Str("type", string(evt.Type)).Msg("Event buffer full, dropping event")
	}
}

// home returns a home of this profile.
func (p *Platform) home(ctx context.Context, homeID string) (*db.HomeRecord, error) {
	r, err := p.db.Homes().Get(ctx, homeID)
	if err != nil {
		return nil, mapError(err)
	}
	if r.ProfileID != p.profileID {
		return nil, fmt.Errorf("%w: home %s", home.ErrNotFound, homeID)
	}
	return r, nil
}

// characteristic loads the characteristic ref points at and checks that it
// belongs to the referenced accessory and home.
func (p *Platform) characteristic(ctx context.Context, ref home.CharacteristicRef) (*db.CharacteristicRecord, error) {
	c, err := p.db.Accessories().GetCharacteristic(ctx, ref.CharacteristicID)
	if err != nil {
		return nil, mapError(err)
	}
	if c.AccessoryID != ref.AccessoryID || c.HomeID != ref.HomeID {
		return nil, fmt.Errorf("%w: characteristic %s", home.ErrNotFound, ref.CharacteristicID)
	}
	return c, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, db.ErrHomeNotFound),
		errors.Is(err, db.ErrAccessoryNotFound),
		errors.Is(err, db.ErrCharacteristicNotFound):
		return fmt.Errorf("%w: %w", home.ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
	}
}

func toHome(r *db.HomeRecord, accessories []*db.AccessoryRecord) home.Home {
	h := home.Home{
		ID:          r.ID,
		Name:        r.Name,
		Primary:     r.IsPrimary,
		Accessories: make([]home.Accessory, 0, len(accessories)),
	}
	for _, a := range accessories {
		h.Accessories = append(h.Accessories, toAccessory(a))
	}
	return h
}

func toAccessory(r *db.AccessoryRecord) home.Accessory {
	a := home.Accessory{
		ID:           r.ID,
		HomeID:       r.HomeID,
		Name:         r.Name,
		Category:     r.Category,
		Manufacturer: r.Manufacturer,
		Model:        r.Model,
		Reachable:    r.Reachable,
		Services:     make([]home.Service, 0, len(r.Services)),
	}
	for _, svc := range r.Services {
		s := home.Service{
			ID:              svc.ID,
			Type:            svc.Type,
			Name:            svc.Name,
			Characteristics: make([]home.Characteristic, 0, len(svc.Characteristics)),
		}
		for _, c := range svc.Characteristics {
			s.Characteristics = append(s.Characteristics, home.Characteristic{
				ID:       c.ID,
				Type:     c.Type,
				Format:   c.Format,
				Value:    decodeValue(c.Value),
				Readable: c.Readable,
				Writable: c.Writable,
				Notifies: c.Notify,
			})
		}
		a.Services = append(a.Services, s)
	}
	return a
}

// decodeValue turns a stored JSON value into bool, float64, string or nil.
func decodeValue(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
