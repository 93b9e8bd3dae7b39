package local

import (
	"encoding/json"
	"fmt"

	"github.com/urmzd/homectl/pkg/db"
	"github.com/urmzd/homectl/pkg/home"
)

// templates describe the services each accessory category exposes.
var templates = map[string][]db.ServiceRecord{
	home.CategoryLightbulb: {{
		Type: home.ServiceTypeLightbulb,
		Characteristics: []db.CharacteristicRecord{
			{Type: home.CharacteristicTypePowerState, Format: home.FormatBool, Value: json.RawMessage("false"), Readable: true, Writable: true},
			{Type: home.CharacteristicTypeBrightness, Format: home.FormatUint8, Value: json.RawMessage("100"), Readable: true, Writable: true},
		},
	}},
	home.CategoryOutlet: {{
		Type: home.ServiceTypeOutlet,
		Characteristics: []db.CharacteristicRecord{
			{Type: home.CharacteristicTypePowerState, Format: home.FormatBool, Value: json.RawMessage("false"), Readable: true, Writable: true},
		},
	}},
	home.CategorySwitch: {{
		Type: home.ServiceTypeSwitch,
		Characteristics: []db.CharacteristicRecord{
			{Type: home.CharacteristicTypePowerState, Format: home.FormatBool, Value: json.RawMessage("false"), Readable: true, Writable: true},
		},
	}},
	home.CategorySensor: {{
		Type: home.ServiceTypeSensor,
		Characteristics: []db.CharacteristicRecord{
			{Type: home.CharacteristicTypeTemperature, Format: home.FormatFloat, Value: json.RawMessage("20"), Readable: true},
		},
	}},
}

// newAccessory builds an accessory record for category from its template.
func newAccessory(homeID, name, category string) (*db.AccessoryRecord, error) {
	if category == "" {
		category = home.CategoryLightbulb
	}
	tmpl, ok := templates[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown accessory category %q", home.ErrOperationFailed, category)
	}

	services := make([]db.ServiceRecord, len(tmpl))
	for i, svc := range tmpl {
		svc.Name = name
		svc.Characteristics = append([]db.CharacteristicRecord(nil), svc.Characteristics...)
		services[i] = svc
	}

	return &db.AccessoryRecord{
		HomeID:    homeID,
		Name:      name,
		Category:  category,
		Reachable: true,
		Services:  services,
	}, nil
}
