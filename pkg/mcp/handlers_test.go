package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/homectl/pkg/db"
	"github.com/urmzd/homectl/pkg/home"
	"github.com/urmzd/homectl/pkg/platform/local"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(filepath.Join(t.TempDir(), "homectl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(ctx))
	require.NoError(t, database.Bootstrap(ctx))
	cfg, err := database.ActiveConfig(ctx)
	require.NoError(t, err)

	platform := local.New(database, cfg.ProfileID())
	t.Cleanup(platform.Close)

	manager := home.NewManager(platform)
	t.Cleanup(manager.Close)
	return NewServer(manager, home.NewLights(platform), home.NewAccessorySetup(platform, manager))
}

func call(t *testing.T, handler toolHandler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

func TestGetHealth(t *testing.T) {
	s := newTestServer(t)

	out := decodeResult[GetHealthOutput](t, call(t, s.handleGetHealth, nil))
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "authorized", out.Platform)
}

func TestHomeTools(t *testing.T) {
	s := newTestServer(t)

	created := decodeResult[CreateHomeOutput](t, call(t, s.handleCreateHome, map[string]any{"name": "Cabin"}))
	assert.Equal(t, "Cabin", created.Home.Name)
	assert.True(t, created.Home.Primary)

	dup := call(t, s.handleCreateHome, map[string]any{"name": "Cabin"})
	assert.True(t, dup.IsError)
	assert.Contains(t, resultText(t, dup), "operation_failed")

	missing := call(t, s.handleCreateHome, map[string]any{})
	assert.True(t, missing.IsError)

	list := decodeResult[ListHomesOutput](t, call(t, s.handleListHomes, nil))
	require.Equal(t, 1, list.Count)

	// Deletion resolves homes by name as well as ID.
	deleted := decodeResult[ResultOutput](t, call(t, s.handleDeleteHome, map[string]any{"home": "cabin"}))
	assert.True(t, deleted.Success)

	list = decodeResult[ListHomesOutput](t, call(t, s.handleListHomes, nil))
	assert.Zero(t, list.Count)
	assert.NotNil(t, list.Homes)

	gone := call(t, s.handleDeleteHome, map[string]any{"home": created.Home.ID})
	assert.True(t, gone.IsError)
	assert.Contains(t, resultText(t, gone), "not_found")
}

func TestAccessoryTools(t *testing.T) {
	s := newTestServer(t)
	created := decodeResult[CreateHomeOutput](t, call(t, s.handleCreateHome, map[string]any{"name": "Cabin"}))

	added := decodeResult[AddAccessoryOutput](t, call(t, s.handleAddAccessory, map[string]any{
		"home":       created.Home.ID,
		"setup_code": "3497-011-2332",
		"name":       "Desk Lamp",
	}))
	require.Len(t, added.Accessories, 1)
	assert.Equal(t, "Desk Lamp", added.Accessories[0].Name)
	assert.True(t, added.Accessories[0].Light)

	bad := call(t, s.handleAddAccessory, map[string]any{"home": "Cabin", "setup_code": "00000000000"})
	assert.True(t, bad.IsError)

	removed := decodeResult[ResultOutput](t, call(t, s.handleRemoveAccessory, map[string]any{
		"home":      "Cabin",
		"accessory": "desk lamp",
	}))
	assert.True(t, removed.Success)

	again := call(t, s.handleRemoveAccessory, map[string]any{"home": "Cabin", "accessory": "Desk Lamp"})
	assert.True(t, again.IsError)
}

func TestLightTools(t *testing.T) {
	s := newTestServer(t)
	decodeResult[CreateHomeOutput](t, call(t, s.handleCreateHome, map[string]any{"name": "Cabin"}))
	decodeResult[AddAccessoryOutput](t, call(t, s.handleAddAccessory, map[string]any{
		"home": "Cabin", "setup_code": "34970112332", "name": "Desk Lamp",
	}))
	decodeResult[AddAccessoryOutput](t, call(t, s.handleAddAccessory, map[string]any{
		"home": "Cabin", "setup_code": "34970112332", "name": "Thermometer", "category": "sensor",
	}))
	lamp := map[string]any{"home": "Cabin", "light": "Desk Lamp"}

	lights := decodeResult[ListLightsOutput](t, call(t, s.handleListLights, map[string]any{"home": "Cabin"}))
	require.Equal(t, 1, lights.Count)
	require.NotNil(t, lights.Lights[0].On)
	assert.False(t, *lights.Lights[0].On)

	state := decodeResult[PowerStateOutput](t, call(t, s.handleToggleLight, lamp))
	assert.True(t, state.On)

	state = decodeResult[PowerStateOutput](t, call(t, s.handleGetPowerState, lamp))
	assert.True(t, state.On)

	state = decodeResult[PowerStateOutput](t, call(t, s.handleTurnOff, lamp))
	assert.False(t, state.On)

	state = decodeResult[PowerStateOutput](t, call(t, s.handleTurnOn, lamp))
	assert.True(t, state.On)

	sensor := call(t, s.handleToggleLight, map[string]any{"home": "Cabin", "light": "Thermometer"})
	assert.True(t, sensor.IsError)
	assert.Contains(t, resultText(t, sensor), "not_found")
}
