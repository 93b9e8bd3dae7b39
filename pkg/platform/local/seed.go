package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/urmzd/homectl/pkg/db"
	"github.com/urmzd/homectl/pkg/home"
)

// Seed is a YAML fixture of homes and their accessories.
type Seed struct {
	Homes []SeedHome `yaml:"homes"`
}

// SeedHome is one home of a seed file.
type SeedHome struct {
	Name        string          `yaml:"name"`
	Accessories []SeedAccessory `yaml:"accessories"`
}

// SeedAccessory is one accessory of a seed home.
type SeedAccessory struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
	On           bool   `yaml:"on"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	for i, h := range seed.Homes {
		if strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("seed home %d: %w", i, home.ErrInvalidName)
		}
	}
	return &seed, nil
}

// ApplySeed creates the seed's homes and accessories. Homes whose name
// already exists are left untouched.
func (p *Platform) ApplySeed(ctx context.Context, seed *Seed) error {
	existing, err := p.db.Homes().List(ctx, p.profileID)
	if err != nil {
		return fmt.Errorf("failed to list homes: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, h := range existing {
		names[h.Name] = true
	}

	for _, sh := range seed.Homes {
		name := strings.TrimSpace(sh.Name)
		if names[name] {
			log.Debug().Str("home", name).Msg("Seed home exists, skipping")
			continue
		}

		hr := &db.HomeRecord{ProfileID: p.profileID, Name: name}
		if err := p.db.Homes().Create(ctx, hr); err != nil {
			return fmt.Errorf("failed to seed home %q: %w", name, err)
		}
		names[name] = true

		for _, sa := range sh.Accessories {
			ar, err := newAccessory(hr.ID, sa.Name, sa.Category)
			if err != nil {
				return fmt.Errorf("failed to seed accessory %q: %w", sa.Name, err)
			}
			ar.Manufacturer = sa.Manufacturer
			ar.Model = sa.Model
			if sa.On {
				setPower(ar, true)
			}
			if err := p.db.Accessories().Create(ctx, ar); err != nil {
				return fmt.Errorf("failed to seed accessory %q: %w", sa.Name, err)
			}
		}

		log.Info().Str("home", name).Int("accessories", len(sh.Accessories)).Msg("Seeded home")
	}
	return nil
}

func setPower(a *db.AccessoryRecord, on bool) {
	raw, _ := json.Marshal(on)
	for i := range a.Services {
		for j := range a.Services[i].Characteristics {
			if a.Services[i].Characteristics[j].Type == home.CharacteristicTypePowerState {
				a.Services[i].Characteristics[j].Value = raw
			}
		}
	}
}
