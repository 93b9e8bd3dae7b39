package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/homectl/pkg/api/types"
	"github.com/urmzd/homectl/pkg/home"
)

// LightsHandler handles light control endpoints. It keeps one toggle per
// light so concurrent clients see the same pending state.
type LightsHandler struct {
	manager *home.Manager
	lights  *home.Lights

	mu      sync.Mutex
	toggles map[string]*home.Toggle // by accessory ID
}

// NewLightsHandler creates a new lights handler
func NewLightsHandler(manager *home.Manager, lights *home.Lights) *LightsHandler {
	return &LightsHandler{
		manager: manager,
		lights:  lights,
		toggles: make(map[string]*home.Toggle),
	}
}

// Run applies power-state notifications to the toggles until ctx is done.
func (h *LightsHandler) Run(ctx context.Context) {
	events := h.manager.Subscribe()
	defer h.manager.Unsubscribe(events)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			h.apply(evt)
		}
	}
}

func (h *LightsHandler) apply(evt home.Event) {
	switch evt.Type {
	case home.EventCharacteristicChanged:
		on, ok := evt.Value.(bool)
		if !ok {
			return
		}
		h.mu.Lock()
		t, ok := h.toggles[evt.AccessoryID]
		h.mu.Unlock()
		if ok {
			t.Apply(on)
		}
	case home.EventHomesChanged, home.EventHomeRemoved, home.EventAccessoryAdded, home.EventAccessoryRemoved:
		h.evict(evt.HomeID, evt.AccessoryID)
	}
}

// evict drops the toggles a registry change may have invalidated: one
// accessory, every light of a home, or everything when the event names
// neither. Platforms may reuse freed accessory IDs.
func (h *LightsHandler) evict(homeID, accessoryID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, t := range h.toggles {
		switch {
		case accessoryID != "":
			if id != accessoryID {
				continue
			}
		case homeID != "":
			if t.Light().HomeID != homeID {
				continue
			}
		}
		delete(h.toggles, id)
	}
}

// toggle returns the toggle of a light, creating it and enabling
// notifications the first time the light is seen. The fresh snapshot's
// cached power state is applied unless a write is pending.
func (h *LightsHandler) toggle(ctx context.Context, light home.Accessory) *home.Toggle {
	h.mu.Lock()
	t, ok := h.toggles[light.ID]
	if !ok {
		t = home.NewToggle(h.lights, light)
		h.toggles[light.ID] = t
	}
	h.mu.Unlock()

	if ok {
		t.SetLight(light)
	} else {
		h.lights.Observe(ctx, light)
	}
	if on, known := home.CachedPowerState(light); known {
		t.Apply(on)
	}
	return t
}

// refresh re-reads the power state unless a write is pending.
func refresh(ctx context.Context, t *home.Toggle) (home.ToggleView, error) {
	if view := t.View(); view.State == home.TogglePending {
		return view, nil
	}
	return t.Load(ctx)
}

// light finds a light of a home.
func (h *LightsHandler) light(ctx context.Context, homeID, accessoryID string) (home.Accessory, error) {
	target, err := h.manager.Home(ctx, homeID)
	if err != nil {
		return home.Accessory{}, err
	}
	a, ok := target.Accessory(accessoryID)
	if !ok || !home.IsLight(*a) {
		return home.Accessory{}, fmt.Errorf("%w: light %s", home.ErrNotFound, accessoryID)
	}
	return *a, nil
}

func lightView(a home.Accessory, v home.ToggleView) types.Light {
	return types.Light{
		ID:        a.ID,
		HomeID:    a.HomeID,
		Name:      a.Name,
		Reachable: a.Reachable,
		State:     v.State,
		On:        v.On,
	}
}

// ListLights handles GET /homes/:homeID/lights
// @Summary      List lights
// @Description  Returns the accessories of a home that expose a light-bulb service, in platform order
// @Tags         lights
// @Produce      json
// @Param        homeID  path      string  true  "Home ID"
// @Success      200     {object}  types.ListLightsResponse
// @Failure      404     {object}  types.ErrorResponse  "Home not found"
// @Router       /homes/{homeID}/lights [get]
func (h *LightsHandler) ListLights(c *gin.Context) {
	ctx := c.Request.Context()
	target, err := h.manager.Home(ctx, c.Param("homeID"))
	if err != nil {
		writeError(c, err)
		return
	}

	lights := h.lights.List(*target)
	result := make([]types.Light, 0, len(lights))
	for _, a := range lights {
		view, err := refresh(ctx, h.toggle(ctx, a))
		if err != nil {
			log.Debug().Err(err).Str("accessory", a.ID).Msg("Power state unavailable")
		}
		result = append(result, lightView(a, view))
	}

	c.JSON(http.StatusOK, types.ListLightsResponse{
		HomeID: target.ID,
		Lights: result,
		Count:  len(result),
	})
}

// GetLight handles GET /homes/:homeID/lights/:accessoryID
// @Summary      Read a light
// @Description  Reads the current power state from the device
// @Tags         lights
// @Produce      json
// @Param        homeID       path      string  true  "Home ID"
// @Param        accessoryID  path      string  true  "Accessory ID"
// @Success      200          {object}  types.LightResponse
// @Failure      404          {object}  types.ErrorResponse  "Light or power state not found"
// @Failure      500          {object}  types.ErrorResponse  "Read failed"
// @Router       /homes/{homeID}/lights/{accessoryID} [get]
func (h *LightsHandler) GetLight(c *gin.Context) {
	ctx := c.Request.Context()
	light, err := h.light(ctx, c.Param("homeID"), c.Param("accessoryID"))
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.toggle(ctx, light).Load(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.LightResponse{Light: lightView(light, view)})
}

// ToggleLight handles POST /homes/:homeID/lights/:accessoryID/toggle
// @Summary      Toggle a light
// @Description  Reads the power state from the device and writes its negation.
// @Tags         lights
// @Produce      json
// @Param        homeID       path      string  true  "Home ID"
// @Param        accessoryID  path      string  true  "Accessory ID"
// @Success      200          {object}  types.LightResponse
// @Failure      404          {object}  types.ErrorResponse  "Light or power state not found"
// @Failure      409          {object}  types.ErrorResponse  "Toggle already in progress"
// @Failure      500          {object}  types.ErrorResponse  "Write failed"
// @Router       /homes/{homeID}/lights/{accessoryID}/toggle [post]
func (h *LightsHandler) ToggleLight(c *gin.Context) {
	ctx := c.Request.Context()
	light, err := h.light(ctx, c.Param("homeID"), c.Param("accessoryID"))
	if err != nil {
		writeError(c, err)
		return
	}

	t := h.toggle(ctx, light)
	if _, err := refresh(ctx, t); err != nil {
		writeError(c, err)
		return
	}

	view, err := t.Flip(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.LightResponse{Light: lightView(light, view)})
}

// SetPower handles PUT /homes/:homeID/lights/:accessoryID/power
// @Summary      Set a light's power state
// @Tags         lights
// @Accept       json
// @Produce      json
// @Param        homeID       path      string                 true  "Home ID"
// @Param        accessoryID  path      string                 true  "Accessory ID"
// @Param        request      body      types.SetPowerRequest  true  "Target power state"
// @Success      200          {object}  types.LightResponse
// @Failure      400          {object}  types.ErrorResponse  "Missing target"
// @Failure      404          {object}  types.ErrorResponse  "Light or power state not found"
// @Failure      500          {object}  types.ErrorResponse  "Write failed"
// @Router       /homes/{homeID}/lights/{accessoryID}/power [put]
func (h *LightsHandler) SetPower(c *gin.Context) {
	var req types.SetPowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	light, err := h.light(ctx, c.Param("homeID"), c.Param("accessoryID"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.lights.SetPower(ctx, light, *req.On); err != nil {
		writeError(c, err)
		return
	}
	t := h.toggle(ctx, light)
	t.Apply(*req.On)
	c.JSON(http.StatusOK, types.LightResponse{Light: lightView(light, t.View())})
}
