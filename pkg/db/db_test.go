package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "homectl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Bootstrap(ctx))
	return db
}

func activeProfile(t *testing.T, db *DB) *Profile {
	t.Helper()
	p, err := db.Profiles().GetActive(context.Background())
	require.NoError(t, err)
	return p
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))
	version, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestBootstrap_CreatesDefaultProfile(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	needed, err := db.NeedsBootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, needed)

	cfg, err := db.ActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Profile.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.APIAddress())
	assert.NotZero(t, cfg.ProfileID())

	// a second run leaves the single profile alone
	require.NoError(t, db.Bootstrap(ctx))
	profiles, err := db.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestProfiles_SetActive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	other := &Profile{Name: "cabin", Timezone: "UTC"}
	require.NoError(t, db.Profiles().Create(ctx, other))
	require.NoError(t, db.Profiles().SetActive(ctx, other.ID))

	active := activeProfile(t, db)
	assert.Equal(t, "cabin", active.Name)

	assert.ErrorIs(t, db.Profiles().SetActive(ctx, 9999), ErrProfileNotFound)
	assert.Equal(t, "cabin", activeProfile(t, db).Name)
	_, err := db.Profiles().Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfiles_CreateRejectsBadNames(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	assert.ErrorIs(t, db.Profiles().Create(ctx, &Profile{Name: "  "}), ErrInvalidProfileName)
	assert.ErrorIs(t, db.Profiles().Create(ctx, &Profile{Name: "default"}), ErrProfileExists)

	p := &Profile{Name: " cabin "}
	require.NoError(t, db.Profiles().Create(ctx, p))
	assert.Equal(t, "cabin", p.Name)

	got, err := db.Profiles().GetByName(ctx, "cabin")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "UTC", got.Timezone)
	assert.False(t, got.IsActive)
}

func TestActivateProfile(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p, err := db.ActivateProfile(ctx, "cabin")
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	cfg, err := db.ActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cabin", cfg.Profile.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.APIAddress())

	// switching back reuses the existing profile
	back, err := db.ActivateProfile(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "default", activeProfile(t, db).Name)

	profiles, err := db.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.NotEqual(t, p.ID, back.ID)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		addr string
		host string
		port int
		ok   bool
	}{
		{"127.0.0.1:9090", "127.0.0.1", 9090, true},
		{":8081", "0.0.0.0", 8081, true},
		{"[::1]:80", "::1", 80, true},
		{"localhost", "", 0, false},
		{"localhost:http", "", 0, false},
		{"localhost:70000", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port, err := ParseAddress(tt.addr)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
		})
	}
}

func TestSetListenAddress(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profileID := activeProfile(t, db).ID

	server, err := db.SetListenAddress(ctx, profileID, "[::1]:9090")
	require.NoError(t, err)
	assert.Equal(t, "[::1]:9090", server.Address())

	cfg, err := db.ActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:9090", cfg.APIAddress())

	_, err = db.SetListenAddress(ctx, profileID, "nope")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// a profile without a row gets one
	bare := &Profile{Name: "bare"}
	require.NoError(t, db.Profiles().Create(ctx, bare))
	_, err = db.APIServers().Get(ctx, bare.ID)
	assert.ErrorIs(t, err, ErrAPIServerNotFound)
	_, err = db.SetListenAddress(ctx, bare.ID, ":7070")
	require.NoError(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "homectl", "homectl.db"), path)
}

func TestHomes_CreateListDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profileID := activeProfile(t, db).ID

	first := &HomeRecord{ProfileID: profileID, Name: "Living Room"}
	require.NoError(t, db.Homes().Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.IsPrimary)

	second := &HomeRecord{ProfileID: profileID, Name: "Cabin"}
	require.NoError(t, db.Homes().Create(ctx, second))
	assert.False(t, second.IsPrimary)

	homes, err := db.Homes().List(ctx, profileID)
	require.NoError(t, err)
	require.Len(t, homes, 2)
	assert.Equal(t, "Living Room", homes[0].Name)
	assert.Equal(t, "Cabin", homes[1].Name)

	require.NoError(t, db.Homes().Delete(ctx, first.ID))
	_, err = db.Homes().Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrHomeNotFound)
	assert.ErrorIs(t, db.Homes().Delete(ctx, first.ID), ErrHomeNotFound)
}

func TestHomes_DuplicateName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profileID := activeProfile(t, db).ID

	require.NoError(t, db.Homes().Create(ctx, &HomeRecord{ProfileID: profileID, Name: "Cabin"}))
	err := db.Homes().Create(ctx, &HomeRecord{ProfileID: profileID, Name: "Cabin"})
	assert.ErrorIs(t, err, ErrHomeExists)
}

func newLamp(homeID, name string) *AccessoryRecord {
	return &AccessoryRecord{
		HomeID:    homeID,
		Name:      name,
		Category:  "lightbulb",
		Reachable: true,
		Services: []ServiceRecord{{
			Type: "lightbulb",
			Name: name,
			Characteristics: []CharacteristicRecord{
				{Type: "power_state", Format: "bool", Value: json.RawMessage("false"), Readable: true, Writable: true},
				{Type: "brightness", Format: "uint8", Value: json.RawMessage("100"), Readable: true, Writable: true},
			},
		}},
	}
}

func TestAccessories_CreateAndLoad(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	home := &HomeRecord{ProfileID: activeProfile(t, db).ID, Name: "Living Room"}
	require.NoError(t, db.Homes().Create(ctx, home))

	desk := newLamp(home.ID, "Desk Lamp")
	require.NoError(t, db.Accessories().Create(ctx, desk))
	require.NoError(t, db.Accessories().Create(ctx, newLamp(home.ID, "Floor Lamp")))

	list, err := db.Accessories().ListByHome(ctx, home.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Desk Lamp", list[0].Name)
	assert.Equal(t, "Floor Lamp", list[1].Name)

	got, err := db.Accessories().Get(ctx, desk.ID)
	require.NoError(t, err)
	require.Len(t, got.Services, 1)
	chars := got.Services[0].Characteristics
	require.Len(t, chars, 2)
	assert.Equal(t, "power_state", chars[0].Type)
	assert.Equal(t, "brightness", chars[1].Type)
	assert.Equal(t, home.ID, chars[0].HomeID)
	assert.JSONEq(t, "false", string(chars[0].Value))
}

func TestAccessories_CharacteristicUpdates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	home := &HomeRecord{ProfileID: activeProfile(t, db).ID, Name: "Living Room"}
	require.NoError(t, db.Homes().Create(ctx, home))
	lamp := newLamp(home.ID, "Desk Lamp")
	require.NoError(t, db.Accessories().Create(ctx, lamp))
	powerID := lamp.Services[0].Characteristics[0].ID

	require.NoError(t, db.Accessories().SetCharacteristic(ctx, powerID, json.RawMessage("true")))
	require.NoError(t, db.Accessories().SetNotify(ctx, powerID, true))

	c, err := db.Accessories().GetCharacteristic(ctx, powerID)
	require.NoError(t, err)
	assert.JSONEq(t, "true", string(c.Value))
	assert.True(t, c.Notify)
	assert.Equal(t, lamp.ID, c.AccessoryID)

	_, err = db.Accessories().GetCharacteristic(ctx, "missing")
	assert.ErrorIs(t, err, ErrCharacteristicNotFound)
	assert.ErrorIs(t, db.Accessories().SetCharacteristic(ctx, "missing", json.RawMessage("true")), ErrCharacteristicNotFound)
}

func TestAccessories_DeleteCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	home := &HomeRecord{ProfileID: activeProfile(t, db).ID, Name: "Living Room"}
	require.NoError(t, db.Homes().Create(ctx, home))
	lamp := newLamp(home.ID, "Desk Lamp")
	require.NoError(t, db.Accessories().Create(ctx, lamp))

	require.NoError(t, db.Accessories().Delete(ctx, lamp.ID))
	_, err := db.Accessories().Get(ctx, lamp.ID)
	assert.ErrorIs(t, err, ErrAccessoryNotFound)
	_, err = db.Accessories().GetCharacteristic(ctx, lamp.Services[0].Characteristics[0].ID)
	assert.ErrorIs(t, err, ErrCharacteristicNotFound)
	assert.ErrorIs(t, db.Accessories().Delete(ctx, lamp.ID), ErrAccessoryNotFound)

	other := newLamp(home.ID, "Floor Lamp")
	require.NoError(t, db.Accessories().Create(ctx, other))
	require.NoError(t, db.Homes().Delete(ctx, home.ID))
	_, err = db.Accessories().Get(ctx, other.ID)
	assert.ErrorIs(t, err, ErrAccessoryNotFound)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Profile: &Profile{Timezone: "UTC"}}
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Profile.Timezone = "Mars/Olympus_Mons"
	assert.Equal(t, time.UTC, cfg.Location())

	assert.Equal(t, "UTC", (&Config{}).Timezone())
	assert.Equal(t, "0.0.0.0:8080", (&Config{}).APIAddress())
}
