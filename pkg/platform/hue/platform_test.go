package hue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/homectl/pkg/home"
)

// fakeBridge is an in-memory Hue bridge.
type fakeBridge struct {
	mu sync.Mutex

	groups []huego.Group
	lights map[int]*huego.Light

	nextGroup  int
	newLights  []string
	scanPolls  int // GetNewLights calls reporting an active scan
	states     map[int]huego.State
	err        error
	findCalled bool
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		lights:    map[int]*huego.Light{},
		states:    map[int]huego.State{},
		nextGroup: 10,
	}
}

func (b *fakeBridge) addLight(id int, name string, on bool) {
	b.lights[id] = &huego.Light{
		ID:               id,
		Name:             name,
		ModelID:          "LCT015",
		ManufacturerName: "Signify Netherlands B.V.",
		State:            &huego.State{On: on, Bri: 254, Reachable: true},
	}
}

func (b *fakeBridge) GetGroupsContext(ctx context.Context) ([]huego.Group, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := make([]huego.Group, len(b.groups))
	copy(out, b.groups)
	return out, nil
}

func (b *fakeBridge) CreateGroupContext(ctx context.Context, g huego.Group) (*huego.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextGroup++
	g.ID = b.nextGroup
	b.groups = append(b.groups, g)
	return &huego.Response{Success: map[string]interface{}{"id": strconv.Itoa(g.ID)}}, nil
}

func (b *fakeBridge) UpdateGroupContext(ctx context.Context, id int, g huego.Group) (*huego.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.groups {
		if b.groups[i].ID == id {
			b.groups[i].Lights = g.Lights
			return &huego.Response{}, nil
		}
	}
	return nil, &huego.APIError{Type: apiErrorResourceNotFound, Description: "resource not available"}
}

func (b *fakeBridge) DeleteGroupContext(ctx context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.groups {
		if b.groups[i].ID == id {
			b.groups = append(b.groups[:i], b.groups[i+1:]...)
			return nil
		}
	}
	return &huego.APIError{Type: apiErrorResourceNotFound, Description: "resource not available"}
}

func (b *fakeBridge) GetLightsContext(ctx context.Context) ([]huego.Light, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := make([]huego.Light, 0, len(b.lights))
	for _, l := range b.lights {
		cp := *l
		st := *l.State
		cp.State = &st
		out = append(out, cp)
	}
	return out, nil
}

func (b *fakeBridge) GetLightContext(ctx context.Context, id int) (*huego.Light, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.lights[id]
	if !ok {
		return nil, &huego.APIError{Type: apiErrorResourceNotFound, Description: "resource not available"}
	}
	cp := *l
	st := *l.State
	cp.State = &st
	return &cp, nil
}

func (b *fakeBridge) SetLightStateContext(ctx context.Context, id int, s huego.State) (*huego.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	l, ok := b.lights[id]
	if !ok {
		return nil, &huego.APIError{Type: apiErrorResourceNotFound, Description: "resource not available"}
	}
	b.states[id] = s
	l.State.On = s.On
	if s.Bri != 0 {
		l.State.Bri = s.Bri
	}
	return &huego.Response{}, nil
}

func (b *fakeBridge) DeleteLightContext(ctx context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.lights[id]; !ok {
		return &huego.APIError{Type: apiErrorResourceNotFound, Description: "resource not available"}
	}
	delete(b.lights, id)
	return nil
}

func (b *fakeBridge) FindLightsContext(ctx context.Context) (*huego.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.findCalled = true
	return &huego.Response{}, nil
}

func (b *fakeBridge) GetNewLightsContext(ctx context.Context) (*huego.NewLight, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scanPolls != 0 {
		if b.scanPolls > 0 {
			b.scanPolls--
		}
		return &huego.NewLight{LastScan: scanStateActive}, nil
	}
	return &huego.NewLight{Lights: b.newLights, LastScan: "2026-10-15T10:00:00"}, nil
}

func livingRoomBridge() *fakeBridge {
	b := newFakeBridge()
	b.addLight(1, "Desk Lamp", false)
	b.addLight(2, "Floor Lamp", true)
	b.addLight(3, "Porch", false)
	b.groups = []huego.Group{
		{ID: 2, Name: "Cabin", Type: groupTypeRoom, Lights: []string{"3"}},
		{ID: 1, Name: "Living Room", Type: groupTypeRoom, Lights: []string{"2", "1"}},
		{ID: 5, Name: "Everything", Type: "LightGroup", Lights: []string{"1", "2", "3"}},
	}
	return b
}

func newTestPlatform(b *fakeBridge) *Platform {
	p := New(b, time.Hour)
	p.scanInterval = time.Millisecond
	return p
}

func TestPlatform_HomesAreRooms(t *testing.T) {
	p := newTestPlatform(livingRoomBridge())

	homes, err := p.Homes(context.Background())
	require.NoError(t, err)
	require.Len(t, homes, 2)

	living := homes[0]
	assert.Equal(t, "1", living.ID)
	assert.Equal(t, "Living Room", living.Name)
	assert.True(t, living.Primary)
	require.Len(t, living.Accessories, 2)
	assert.Equal(t, "Floor Lamp", living.Accessories[0].Name)
	assert.Equal(t, "Desk Lamp", living.Accessories[1].Name)
	assert.True(t, home.IsLight(living.Accessories[0]))
	assert.Equal(t, "Cabin", homes[1].Name)
	assert.False(t, homes[1].Primary)
}

func TestPlatform_AddHome(t *testing.T) {
	b := livingRoomBridge()
	p := newTestPlatform(b)
	ctx := context.Background()

	h, err := p.AddHome(ctx, "Garage")
	require.NoError(t, err)
	assert.Equal(t, "11", h.ID)
	assert.NotNil(t, h.Accessories)

	_, err = p.AddHome(ctx, "living room")
	assert.ErrorIs(t, err, home.ErrDuplicateName)
}

func TestPlatform_RemoveHomeAndAccessory(t *testing.T) {
	b := livingRoomBridge()
	p := newTestPlatform(b)
	ctx := context.Background()

	require.NoError(t, p.RemoveAccessory(ctx, "1", "2"))
	assert.ErrorIs(t, p.RemoveAccessory(ctx, "1", "2"), home.ErrNotFound)
	assert.ErrorIs(t, p.RemoveAccessory(ctx, "1", "lamp"), home.ErrNotFound)

	require.NoError(t, p.RemoveHome(ctx, "2"))
	assert.ErrorIs(t, p.RemoveHome(ctx, "2"), home.ErrNotFound)
}

func TestPlatform_ToggleThroughLights(t *testing.T) {
	b := livingRoomBridge()
	p := newTestPlatform(b)
	ctx := context.Background()
	lights := home.NewLights(p)

	homes, err := p.Homes(ctx)
	require.NoError(t, err)
	desk := homes[0].Accessories[1]

	on, err := lights.Toggle(ctx, desk)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, b.states[1].On)

	state, err := lights.PowerState(ctx, desk)
	require.NoError(t, err)
	assert.True(t, state)
}

func TestPlatform_Brightness(t *testing.T) {
	b := livingRoomBridge()
	p := newTestPlatform(b)
	ctx := context.Background()
	ref := home.CharacteristicRef{HomeID: "1", AccessoryID: "1", ServiceID: "1-light", CharacteristicID: "1" + suffixBrightness}

	value, err := p.ReadCharacteristic(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), value)

	require.NoError(t, p.WriteCharacteristic(ctx, ref, 50))
	assert.Equal(t, uint8(127), b.states[1].Bri)
	assert.True(t, b.states[1].On)

	require.NoError(t, p.WriteCharacteristic(ctx, ref, 0))
	assert.False(t, b.states[1].On)
	assert.Zero(t, b.states[1].Bri)

	assert.ErrorIs(t, p.WriteCharacteristic(ctx, ref, 150), home.ErrOperationFailed)

	ref.CharacteristicID = "1-hue"
	_, err = p.ReadCharacteristic(ctx, ref)
	assert.ErrorIs(t, err, home.ErrNotFound)
}

func TestPercentToBri(t *testing.T) {
	assert.Equal(t, uint8(0), percentToBri(0))
	assert.Equal(t, uint8(1), percentToBri(0.1))
	assert.Equal(t, uint8(3), percentToBri(uint8(1)))
	assert.Equal(t, uint8(127), percentToBri(50))
	assert.Equal(t, uint8(254), percentToBri(int64(100)))
}

func TestPlatform_APIErrors(t *testing.T) {
	b := livingRoomBridge()
	p := newTestPlatform(b)
	b.err = &huego.APIError{Type: apiErrorUnauthorized, Description: "unauthorized user"}

	_, err := p.Homes(context.Background())
	assert.ErrorIs(t, err, home.ErrUnauthorized)
	assert.Equal(t, home.KindUnauthorized, home.KindOf(err))
}

func TestPlatform_CommissionAddsNewLights(t *testing.T) {
	b := livingRoomBridge()
	b.addLight(4, "Hue color lamp 4", false)
	b.newLights = []string{"4"}
	b.scanPolls = 2
	p := newTestPlatform(b)

	result, err := p.PerformAccessorySetup(context.Background(), home.SetupRequest{HomeID: "2"})
	require.NoError(t, err)
	require.Len(t, result.Accessories, 1)
	assert.Equal(t, "4", result.Accessories[0].ID)
	assert.Equal(t, "2", result.Accessories[0].HomeID)
	assert.True(t, b.findCalled)

	homes, err := p.Homes(context.Background())
	require.NoError(t, err)
	assert.Len(t, homes[1].Accessories, 2)
}

func TestPlatform_CommissionFindsNothing(t *testing.T) {
	p := newTestPlatform(livingRoomBridge())
	_, err := p.PerformAccessorySetup(context.Background(), home.SetupRequest{HomeID: "1"})
	assert.ErrorIs(t, err, home.ErrNoNewAccessories)

	_, err = p.PerformAccessorySetup(context.Background(), home.SetupRequest{HomeID: "9"})
	assert.ErrorIs(t, err, home.ErrNotFound)
}

func TestPlatform_CommissionCancelled(t *testing.T) {
	b := livingRoomBridge()
	b.scanPolls = -1 // scan never finishes
	p := newTestPlatform(b)
	setup := home.NewAccessorySetup(p, home.NewManager(p))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := setup.AddAccessory(ctx, home.Home{ID: "1"}, home.SetupRequest{})
	assert.ErrorIs(t, err, home.ErrCancelled)
	assert.Equal(t, home.KindCancelled, home.KindOf(err))
}

func TestPlatform_PollEmitsChanges(t *testing.T) {
	b := livingRoomBridge()
	p := newTestPlatform(b)
	ctx := context.Background()

	require.NoError(t, p.EnableNotification(ctx, home.CharacteristicRef{HomeID: "1", AccessoryID: "1", CharacteristicID: "1" + suffixPower}, true))
	p.poll(ctx)
	assert.Empty(t, p.events)

	b.mu.Lock()
	b.lights[1].State.On = true
	b.lights[3].State.On = true // not watched
	b.mu.Unlock()
	p.poll(ctx)

	require.Len(t, p.events, 1)
	evt := <-p.events
	assert.Equal(t, home.EventCharacteristicChanged, evt.Type)
	assert.Equal(t, "1", evt.AccessoryID)
	assert.Equal(t, "1", evt.HomeID)
	assert.Equal(t, true, evt.Value)

	_, err := p.AddHome(ctx, "Garage")
	require.NoError(t, err)
	p.poll(ctx)
	require.Len(t, p.events, 1)
	evt = <-p.events
	assert.Equal(t, home.EventHomesChanged, evt.Type)
}

func TestConnect_RequiresUser(t *testing.T) {
	_, err := Connect("192.168.1.2", "")
	assert.ErrorIs(t, err, home.ErrUnauthorized)

	_, err = Connect("", "user")
	assert.ErrorIs(t, err, home.ErrOperationFailed)

	b, err := Connect("192.168.1.2", "user")
	require.NoError(t, err)
	assert.NotNil(t, b)
}
