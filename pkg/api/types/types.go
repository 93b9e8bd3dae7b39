package types

import (
	"time"

	"github.com/urmzd/homectl/pkg/home"
)

// --- Request DTOs ---

// CreateHomeRequest is the request body for POST /homes
type CreateHomeRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddAccessoryRequest is the request body for POST /homes/:homeID/accessories
type AddAccessoryRequest struct {
	SetupCode string `json:"setup_code,omitempty"` // Matter manual pairing code
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"` // lightbulb, outlet, switch, sensor
}

// SetPowerRequest is the request body for PUT /homes/:homeID/lights/:accessoryID/power
type SetPowerRequest struct {
	On *bool `json:"on" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Platform  string    `json:"platform"`
	Homes     int       `json:"homes"`
	Timestamp time.Time `json:"timestamp"`
}

// ListHomesResponse is returned from GET /homes
type ListHomesResponse struct {
	Homes []home.Home `json:"homes"`
	Count int         `json:"count"`
}

// HomeResponse is returned from GET and POST /homes
type HomeResponse struct {
	Home home.Home `json:"home"`
}

// AddAccessoryResponse is returned from POST /homes/:homeID/accessories
type AddAccessoryResponse struct {
	HomeID      string           `json:"home_id"`
	Accessories []home.Accessory `json:"accessories"`
}

// Light is a light accessory with its displayed power state
type Light struct {
	ID        string           `json:"id"`
	HomeID    string           `json:"home_id"`
	Name      string           `json:"name"`
	Reachable bool             `json:"reachable"`
	State     home.ToggleState `json:"state"`
	On        bool             `json:"on"`
}

// ListLightsResponse is returned from GET /homes/:homeID/lights
type ListLightsResponse struct {
	HomeID string  `json:"home_id"`
	Lights []Light `json:"lights"`
	Count  int     `json:"count"`
}

// LightResponse is returned from the single-light endpoints
type LightResponse struct {
	Light Light `json:"light"`
}
