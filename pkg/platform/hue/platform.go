package hue

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/homectl/pkg/home"
	"github.com/urmzd/homectl/pkg/home/schema"
)

const (
	groupTypeRoom     = "Room"
	defaultRoomClass  = "Other"
	scanStateActive   = "active"
	eventBuffer       = 64
	defaultPoll       = 5 * time.Second
	defaultScanPeriod = 2 * time.Second
)

// Characteristic ID suffixes. IDs are "<light>-on" and "<light>-bri".
const (
	suffixPower      = "-on"
	suffixBrightness = "-bri"
)

// Platform exposes the rooms of a Hue bridge as homes and their lights as
// accessories.
type Platform struct {
	bridge       Bridge
	pollInterval time.Duration
	scanInterval time.Duration
	validator    *schema.Validator

	mu      sync.Mutex
	watched map[string]bool // light ID -> notifications on
	lastOn  map[string]bool
	roomSet string // sorted room IDs seen by the last poll

	events   chan home.Event
	eventsMu sync.RWMutex
	closed   bool
}

// New creates a Hue platform. A zero pollInterval uses the default.
func New(bridge Bridge, pollInterval time.Duration) *Platform {
	if pollInterval <= 0 {
		pollInterval = defaultPoll
	}
	return &Platform{
		bridge:       bridge,
		pollInterval: pollInterval,
		scanInterval: defaultScanPeriod,
		validator:    schema.NewValidator(),
		watched:      make(map[string]bool),
		lastOn:       make(map[string]bool),
		events:       make(chan home.Event, eventBuffer),
	}
}

func (p *Platform) Homes(ctx context.Context) ([]home.Home, error) {
	groups, err := p.rooms(ctx)
	if err != nil {
		return nil, err
	}
	lights, err := p.bridge.GetLightsContext(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	byID := make(map[string]huego.Light, len(lights))
	for _, l := range lights {
		byID[strconv.Itoa(l.ID)] = l
	}

	homes := make([]home.Home, 0, len(groups))
	for i, g := range groups {
		h := home.Home{
			ID:          strconv.Itoa(g.ID),
			Name:        g.Name,
			Primary:     i == 0,
			Accessories: make([]home.Accessory, 0, len(g.Lights)),
		}
		for _, id := range g.Lights {
			if l, ok := byID[id]; ok {
				h.Accessories = append(h.Accessories, toAccessory(h.ID, l))
			}
		}
		homes = append(homes, h)
	}
	return homes, nil
}

func (p *Platform) AddHome(ctx context.Context, name string) (*home.Home, error) {
	groups, err := p.rooms(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return nil, home.ErrDuplicateName
		}
	}

	resp, err := p.bridge.CreateGroupContext(ctx, huego.Group{
		Name:   name,
		Type:   groupTypeRoom,
		Class:  defaultRoomClass,
		Lights: []string{},
	})
	if err != nil {
		return nil, mapError(err)
	}
	id, ok := resp.Success["id"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: bridge did not return a group id", home.ErrOperationFailed)
	}
	return &home.Home{ID: id, Name: name, Primary: len(groups) == 0, Accessories: []home.Accessory{}}, nil
}

func (p *Platform) RemoveHome(ctx context.Context, homeID string) error {
	id, err := parseID(homeID)
	if err != nil {
		return err
	}
	return mapError(p.bridge.DeleteGroupContext(ctx, id))
}

func (p *Platform) RemoveAccessory(ctx context.Context, homeID, accessoryID string) error {
	id, err := parseID(accessoryID)
	if err != nil {
		return err
	}
	if err := p.bridge.DeleteLightContext(ctx, id); err != nil {
		return mapError(err)
	}

	p.mu.Lock()
	delete(p.watched, accessoryID)
	delete(p.lastOn, accessoryID)
	p.mu.Unlock()
	return nil
}

func (p *Platform) ReadCharacteristic(ctx context.Context, ref home.CharacteristicRef) (any, error) {
	id, err := parseID(ref.AccessoryID)
	if err != nil {
		return nil, err
	}
	l, err := p.bridge.GetLightContext(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if l.State == nil {
		return nil, fmt.Errorf("%w: light %s reported no state", home.ErrOperationFailed, ref.AccessoryID)
	}

	switch {
	case strings.HasSuffix(ref.CharacteristicID, suffixPower):
		return l.State.On, nil
	case strings.HasSuffix(ref.CharacteristicID, suffixBrightness):
		return briToPercent(l.State.Bri), nil
	default:
		return nil, fmt.Errorf("%w: characteristic %s", home.ErrNotFound, ref.CharacteristicID)
	}
}

func (p *Platform) WriteCharacteristic(ctx context.Context, ref home.CharacteristicRef, value any) error {
	id, err := parseID(ref.AccessoryID)
	if err != nil {
		return err
	}

	var state huego.State
	switch {
	case strings.HasSuffix(ref.CharacteristicID, suffixPower):
		if err := p.validator.ValidateFormat(home.FormatBool, value); err != nil {
			return fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
		}
		state.On = value.(bool)
	case strings.HasSuffix(ref.CharacteristicID, suffixBrightness):
		if err := p.validator.ValidateFormat(home.FormatUint8, value); err != nil {
			return fmt.Errorf("%w: %w", home.ErrOperationFailed, err)
		}
		// the bridge rejects bri 0, so 0% turns the light off
		if bri := percentToBri(value); bri > 0 {
			state.On = true
			state.Bri = bri
		}
	default:
		return fmt.Errorf("%w: characteristic %s", home.ErrNotFound, ref.CharacteristicID)
	}

	if _, err := p.bridge.SetLightStateContext(ctx, id, state); err != nil {
		return mapError(err)
	}
	return nil
}

// EnableNotification marks the light as watched by the poller. Only the
// power state is reported.
func (p *Platform) EnableNotification(ctx context.Context, ref home.CharacteristicRef, enable bool) error {
	if _, err := parseID(ref.AccessoryID); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if enable {
		p.watched[ref.AccessoryID] = true
	} else {
		delete(p.watched, ref.AccessoryID)
	}
	return nil
}

// PerformAccessorySetup starts a light scan on the bridge, waits for it to
// finish and assigns the lights it found to the home.
func (p *Platform) PerformAccessorySetup(ctx context.Context, req home.SetupRequest) (*home.SetupResult, error) {
	groupID, err := parseID(req.HomeID)
	if err != nil {
		return nil, err
	}
	group, err := p.room(ctx, req.HomeID)
	if err != nil {
		return nil, err
	}

	if _, err := p.bridge.FindLightsContext(ctx); err != nil {
		return nil, mapError(err)
	}
	log.Info().Str("home", req.HomeID).Msg("Hue light scan started")

	found, err := p.awaitScan(ctx)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, home.ErrNoNewAccessories
	}

	group.Lights = append(group.Lights, found...)
	if _, err := p.bridge.UpdateGroupContext(ctx, groupID, huego.Group{Lights: group.Lights}); err != nil {
		return nil, mapError(err)
	}

	result := &home.SetupResult{Accessories: make([]home.Accessory, 0, len(found))}
	for _, lightID := range found {
		id, err := parseID(lightID)
		if err != nil {
			continue
		}
		l, err := p.bridge.GetLightContext(ctx, id)
		if err != nil {
			return nil, mapError(err)
		}
		result.Accessories = append(result.Accessories, toAccessory(req.HomeID, *l))
	}
	return result, nil
}

// awaitScan polls the bridge until the light scan is no longer active.
func (p *Platform) awaitScan(ctx context.Context) ([]string, error) {
	ticker := time.NewTicker(p.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			nl, err := p.bridge.GetNewLightsContext(ctx)
			if err != nil {
				return nil, mapError(err)
			}
			if nl.LastScan != scanStateActive {
				return nl.Lights, nil
			}
		}
	}
}

// Run polls the bridge until ctx is done. It emits homes_changed when the set
// of rooms changes and characteristic_changed when a watched light is
// switched outside homectl.
func (p *Platform) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Platform) poll(ctx context.Context) {
	groups, err := p.rooms(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to poll hue rooms")
		return
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, strconv.Itoa(g.ID))
	}
	slices.Sort(ids)
	rooms := strings.Join(ids, ",")

	p.mu.Lock()
	changed := p.roomSet != "" && p.roomSet != rooms
	p.roomSet = rooms
	p.mu.Unlock()
	if changed {
		p.emit(home.Event{Type: home.EventHomesChanged})
	}

	lights, err := p.bridge.GetLightsContext(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to poll hue lights")
		return
	}
	homeOf := make(map[string]string)
	for _, g := range groups {
		for _, id := range g.Lights {
			homeOf[id] = strconv.Itoa(g.ID)
		}
	}

	for _, l := range lights {
		if l.State == nil {
			continue
		}
		id := strconv.Itoa(l.ID)

		p.mu.Lock()
		prev, seen := p.lastOn[id]
		p.lastOn[id] = l.State.On
		watched := p.watched[id]
		p.mu.Unlock()

		if watched && seen && prev != l.State.On {
			ref := home.CharacteristicRef{
				HomeID:           homeOf[id],
				AccessoryID:      id,
				ServiceID:        id + "-light",
				CharacteristicID: id + suffixPower,
			}
			p.emit(home.Event{
				Type:           home.EventCharacteristicChanged,
				HomeID:         ref.HomeID,
				AccessoryID:    id,
				Characteristic: &ref,
				Value:          l.State.On,
			})
		}
	}
}

func (p *Platform) Events() <-chan home.Event {
	return p.events
}

// Close closes the events channel.
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

// rooms returns the bridge's Room groups ordered by ID.
func (p *Platform) rooms(ctx context.Context) ([]huego.Group, error) {
	groups, err := p.bridge.GetGroupsContext(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	rooms := make([]huego.Group, 0, len(groups))
	for _, g := range groups {
		if g.Type == groupTypeRoom {
			rooms = append(rooms, g)
		}
	}
	slices.SortFunc(rooms, func(a, b huego.Group) int { return a.ID - b.ID })
	return rooms, nil
}

func (p *Platform) room(ctx context.Context, homeID string) (*huego.Group, error) {
	groups, err := p.rooms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if strconv.Itoa(groups[i].ID) == homeID {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("%w: room %s", home.ErrNotFound, homeID)
}

func toAccessory(homeID string, l huego.Light) home.Accessory {
	id := strconv.Itoa(l.ID)
	var on any
	var bri any
	reachable := false
	if l.State != nil {
		on = l.State.On
		bri = briToPercent(l.State.Bri)
		reachable = l.State.Reachable
	}

	return home.Accessory{
		ID:           id,
		HomeID:       homeID,
		Name:         l.Name,
		Category:     home.CategoryLightbulb,
		Manufacturer: l.ManufacturerName,
		Model:        l.ModelID,
		Reachable:    reachable,
		Services: []home.Service{{
			ID:   id + "-light",
			Type: home.ServiceTypeLightbulb,
			Name: l.Name,
			Characteristics: []home.Characteristic{
				{ID: id + suffixPower, Type: home.CharacteristicTypePowerState, Format: home.FormatBool, Value: on, Readable: true, Writable: true, Notifies: true},
				{ID: id + suffixBrightness, Type: home.CharacteristicTypeBrightness, Format: home.FormatUint8, Value: bri, Readable: true, Writable: true},
			},
		}},
	}
}

func parseID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid bridge id %q", home.ErrNotFound, id)
	}
	return n, nil
}

// briToPercent maps Hue brightness 1..254 to 0..100.
func briToPercent(bri uint8) uint8 {
	return uint8(math.Round(float64(bri) * 100 / 254))
}

// percentToBri maps 0..100 to Hue brightness 1..254, or 0 for 0%.
func percentToBri(v any) uint8 {
	var pct float64
	switch n := v.(type) {
	case int:
		pct = float64(n)
	case int64:
		pct = float64(n)
	case uint8:
		pct = float64(n)
	case float64:
		pct = n
	}
	if pct <= 0 {
		return 0
	}
	return uint8(math.Min(254, math.Max(1, math.Round(pct*254/100))))
}
