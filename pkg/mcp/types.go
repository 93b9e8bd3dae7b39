package mcp

import "github.com/urmzd/homectl/pkg/home"

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Platform  string `json:"platform" jsonschema:"description=Platform authorization status"`
	Homes     int    `json:"homes" jsonschema:"description=Number of homes"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Registry Tools ---

// ListHomesOutput is the output for the list_homes tool
type ListHomesOutput struct {
	Homes []HomeInfo `json:"homes" jsonschema:"description=Homes in platform order"`
	Count int        `json:"count" jsonschema:"description=Total number of homes"`
}

// HomeInfo represents a home in tool outputs
type HomeInfo struct {
	ID          string          `json:"id" jsonschema:"description=Unique home identifier"`
	Name        string          `json:"name" jsonschema:"description=Display name"`
	Primary     bool            `json:"primary" jsonschema:"description=Whether this is the primary home"`
	Accessories []AccessoryInfo `json:"accessories" jsonschema:"description=Accessories of the home"`
}

// AccessoryInfo represents an accessory in tool outputs
type AccessoryInfo struct {
	ID           string `json:"id" jsonschema:"description=Unique accessory identifier"`
	Name         string `json:"name" jsonschema:"description=Display name"`
	Category     string `json:"category" jsonschema:"description=Accessory category"`
	Manufacturer string `json:"manufacturer,omitempty" jsonschema:"description=Device manufacturer"`
	Model        string `json:"model,omitempty" jsonschema:"description=Device model"`
	Reachable    bool   `json:"reachable" jsonschema:"description=Whether the accessory is reachable"`
	Light        bool   `json:"light" jsonschema:"description=Whether the accessory is a light"`
}

// CreateHomeOutput is the output for the create_home tool
type CreateHomeOutput struct {
	Home HomeInfo `json:"home" jsonschema:"description=The created home"`
}

// ResultOutput is the output of tools that only report success
type ResultOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AddAccessoryOutput is the output for the add_accessory tool
type AddAccessoryOutput struct {
	HomeID      string          `json:"home_id" jsonschema:"description=Home the accessories were added to"`
	Accessories []AccessoryInfo `json:"accessories" jsonschema:"description=Accessories added by the pairing flow"`
}

// --- Light Tools ---

// ListLightsOutput is the output for the list_lights tool
type ListLightsOutput struct {
	HomeID string      `json:"home_id"`
	Lights []LightInfo `json:"lights" jsonschema:"description=Lights in platform order"`
	Count  int         `json:"count"`
}

// LightInfo represents a light in tool outputs. On is the last value the
// platform reported and may be stale.
type LightInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	On        *bool  `json:"on,omitempty" jsonschema:"description=Last known power state, absent if never reported"`
}

// PowerStateOutput is the output of the power tools
type PowerStateOutput struct {
	LightID string `json:"light_id"`
	Name    string `json:"name"`
	On      bool   `json:"on"`
}

// HomeToInfo converts a home to its tool representation
func HomeToInfo(h home.Home) HomeInfo {
	accessories := make([]AccessoryInfo, 0, len(h.Accessories))
	for _, a := range h.Accessories {
		accessories = append(accessories, AccessoryToInfo(a))
	}
	return HomeInfo{
		ID:          h.ID,
		Name:        h.Name,
		Primary:     h.Primary,
		Accessories: accessories,
	}
}

// AccessoryToInfo converts an accessory to its tool representation
func AccessoryToInfo(a home.Accessory) AccessoryInfo {
	return AccessoryInfo{
		ID:           a.ID,
		Name:         a.Name,
		Category:     a.Category,
		Manufacturer: a.Manufacturer,
		Model:        a.Model,
		Reachable:    a.Reachable,
		Light:        home.IsLight(a),
	}
}
