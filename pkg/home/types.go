package home

import "time"

// Home is a named collection of accessories owned by the platform.
type Home struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Primary     bool        `json:"primary"`
	Accessories []Accessory `json:"accessories"`
}

// Accessory finds an accessory of the home by ID.
func (h *Home) Accessory(id string) (*Accessory, bool) {
	for i := range h.Accessories {
		if h.Accessories[i].ID == id {
			return &h.Accessories[i], true
		}
	}
	return nil, false
}

// Accessory is a physical or virtual device registered to a home.
type Accessory struct {
	ID           string    `json:"id"`
	HomeID       string    `json:"home_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`               // lightbulb, outlet, switch, sensor
	Manufacturer string    `json:"manufacturer,omitempty"` // Device manufacturer/vendor
	Model        string    `json:"model,omitempty"`        // Device model
	Reachable    bool      `json:"reachable"`
	Services     []Service `json:"services"`
}

// Service returns the first service of the given type.
func (a *Accessory) Service(serviceType string) (*Service, bool) {
	for i := range a.Services {
		if a.Services[i].Type == serviceType {
			return &a.Services[i], true
		}
	}
	return nil, false
}

// Service is a functional facet of an accessory grouping related characteristics.
type Service struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Name            string           `json:"name,omitempty"`
	Characteristics []Characteristic `json:"characteristics"`
}

// Characteristic returns the first characteristic of the given type.
func (s *Service) Characteristic(characteristicType string) (*Characteristic, bool) {
	for i := range s.Characteristics {
		if s.Characteristics[i].Type == characteristicType {
			return &s.Characteristics[i], true
		}
	}
	return nil, false
}

// Characteristic is a single value exposed by a service.
// Value holds the last value the platform reported, which may be stale.
type Characteristic struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Format   string `json:"format"`
	Value    any    `json:"value,omitempty"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
	Notifies bool   `json:"notifies"`
}

// CharacteristicRef addresses one characteristic on the platform.
type CharacteristicRef struct {
	HomeID           string `json:"home_id"`
	AccessoryID      string `json:"accessory_id"`
	ServiceID        string `json:"service_id"`
	CharacteristicID string `json:"characteristic_id"`
}

// SetupRequest scopes a commissioning flow to a home.
type SetupRequest struct {
	HomeID    string `json:"home_id"`
	SetupCode string `json:"setup_code,omitempty"` // Matter manual pairing code
	Name      string `json:"name,omitempty"`       // Friendly name for the new accessory
	Category  string `json:"category,omitempty"`
}

// SetupResult lists the accessories a commissioning flow added.
type SetupResult struct {
	Accessories []Accessory `json:"accessories"`
}

// EventType names a platform or registry notification.
type EventType string

// Event is a change notification. Listeners re-query the registry on receipt;
// only characteristic events carry a value.
type Event struct {
	Type           EventType          `json:"type"`
	HomeID         string             `json:"home_id,omitempty"`
	AccessoryID    string             `json:"accessory_id,omitempty"`
	Characteristic *CharacteristicRef `json:"characteristic,omitempty"`
	Value          any                `json:"value,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}

// Event types
const (
	EventHomesChanged          EventType = "homes_changed"
	EventAuthorizationChanged  EventType = "authorization_changed"
	EventHomeAdded             EventType = "home_added"
	EventHomeRemoved           EventType = "home_removed"
	EventAccessoryAdded        EventType = "accessory_added"
	EventAccessoryRemoved      EventType = "accessory_removed"
	EventCharacteristicChanged EventType = "characteristic_changed"
)

// Service type constants
const (
	ServiceTypeLightbulb = "lightbulb"
	ServiceTypeOutlet    = "outlet"
	ServiceTypeSwitch    = "switch"
	ServiceTypeSensor    = "sensor"
)

// Characteristic type constants
const (
	CharacteristicTypePowerState  = "power_state"
	CharacteristicTypeBrightness  = "brightness"
	CharacteristicTypeName        = "name"
	CharacteristicTypeTemperature = "current_temperature"
)

// Characteristic value formats
const (
	FormatBool   = "bool"
	FormatUint8  = "uint8"
	FormatFloat  = "float"
	FormatString = "string"
)

// Accessory category constants
const (
	CategoryLightbulb = "lightbulb"
	CategoryOutlet    = "outlet"
	CategorySwitch    = "switch"
	CategorySensor    = "sensor"
)
