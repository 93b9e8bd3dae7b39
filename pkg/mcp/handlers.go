package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/homectl/pkg/home"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	homes, err := s.manager.Platform().Homes(ctx)

	platformStatus := "authorized"
	switch {
	case errors.Is(err, home.ErrUnauthorized):
		platformStatus = "unauthorized"
	case err != nil:
		platformStatus = "error"
	}

	status := "healthy"
	if err != nil {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Platform:  platformStatus,
		Homes:     len(homes),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListHomes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	homes := s.manager.Homes(ctx)

	infos := make([]HomeInfo, 0, len(homes))
	for _, h := range homes {
		infos = append(infos, HomeToInfo(h))
	}

	out := ListHomesOutput{
		Homes: infos,
		Count: len(infos),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleCreateHome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := s.manager.CreateHome(ctx, name)
	if err != nil {
		return toolError("failed to create home", err), nil
	}

	out := CreateHomeOutput{Home: HomeToInfo(*created)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDeleteHome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.resolveHome(ctx, request)
	if err != nil {
		return toolError("home not found", err), nil
	}

	if err := s.manager.DeleteHome(ctx, *target); err != nil {
		return toolError("failed to delete home", err), nil
	}

	out := ResultOutput{
		Success: true,
		Message: fmt.Sprintf("Home %q deleted", target.Name),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleAddAccessory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.resolveHome(ctx, request)
	if err != nil {
		return toolError("home not found", err), nil
	}

	result, err := s.setup.AddAccessory(ctx, *target, home.SetupRequest{
		SetupCode: optionalString(request, "setup_code"),
		Name:      optionalString(request, "name"),
		Category:  optionalString(request, "category"),
	})
	if err != nil {
		return toolError("failed to add accessory", err), nil
	}

	infos := make([]AccessoryInfo, 0, len(result.Accessories))
	for _, a := range result.Accessories {
		infos = append(infos, AccessoryToInfo(a))
	}
	out := AddAccessoryOutput{
		HomeID:      target.ID,
		Accessories: infos,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRemoveAccessory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.resolveHome(ctx, request)
	if err != nil {
		return toolError("home not found", err), nil
	}
	key, err := requiredString(request, "accessory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	accessory, ok := findAccessory(target.Accessories, key)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("accessory not found: %s", key)), nil
	}

	if err := s.manager.RemoveAccessory(ctx, *target, accessory); err != nil {
		return toolError("failed to remove accessory", err), nil
	}

	out := ResultOutput{
		Success: true,
		Message: fmt.Sprintf("Accessory %q removed from %q", accessory.Name, target.Name),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListLights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := s.resolveHome(ctx, request)
	if err != nil {
		return toolError("home not found", err), nil
	}

	lights := s.lights.List(*target)
	infos := make([]LightInfo, 0, len(lights))
	for _, a := range lights {
		info := LightInfo{ID: a.ID, Name: a.Name, Reachable: a.Reachable}
		if on, known := home.CachedPowerState(a); known {
			info.On = &on
		}
		infos = append(infos, info)
	}

	out := ListLightsOutput{
		HomeID: target.ID,
		Lights: infos,
		Count:  len(infos),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetPowerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	light, err := s.resolveLight(ctx, request)
	if err != nil {
		return toolError("light not found", err), nil
	}

	on, err := s.lights.PowerState(ctx, light)
	if err != nil {
		return toolError("failed to read power state", err), nil
	}

	out := PowerStateOutput{LightID: light.ID, Name: light.Name, On: on}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleToggleLight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	light, err := s.resolveLight(ctx, request)
	if err != nil {
		return toolError("light not found", err), nil
	}

	on, err := s.lights.Toggle(ctx, light)
	if err != nil {
		return toolError("failed to toggle light", err), nil
	}

	out := PowerStateOutput{LightID: light.ID, Name: light.Name, On: on}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setPower(ctx, request, true)
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setPower(ctx, request, false)
}

func (s *Server) setPower(ctx context.Context, request mcp.CallToolRequest, on bool) (*mcp.CallToolResult, error) {
	light, err := s.resolveLight(ctx, request)
	if err != nil {
		return toolError("light not found", err), nil
	}

	if err := s.lights.SetPower(ctx, light, on); err != nil {
		return toolError("failed to set power state", err), nil
	}

	out := PowerStateOutput{LightID: light.ID, Name: light.Name, On: on}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

// resolveHome finds the home named by the "home" argument, by ID or name.
func (s *Server) resolveHome(ctx context.Context, request mcp.CallToolRequest) (*home.Home, error) {
	key, err := requiredString(request, "home")
	if err != nil {
		return nil, err
	}

	for _, h := range s.manager.Homes(ctx) {
		if h.ID == key || strings.EqualFold(h.Name, key) {
			return &h, nil
		}
	}
	return nil, fmt.Errorf("%w: home %s", home.ErrNotFound, key)
}

// resolveLight finds the light named by the "light" argument within the home.
func (s *Server) resolveLight(ctx context.Context, request mcp.CallToolRequest) (home.Accessory, error) {
	target, err := s.resolveHome(ctx, request)
	if err != nil {
		return home.Accessory{}, err
	}
	key, err := requiredString(request, "light")
	if err != nil {
		return home.Accessory{}, err
	}

	light, ok := findAccessory(s.lights.List(*target), key)
	if !ok {
		return home.Accessory{}, fmt.Errorf("%w: light %s", home.ErrNotFound, key)
	}
	return light, nil
}

func findAccessory(accessories []home.Accessory, key string) (home.Accessory, bool) {
	for _, a := range accessories {
		if a.ID == key {
			return a, true
		}
	}
	for _, a := range accessories {
		if strings.EqualFold(a.Name, key) {
			return a, true
		}
	}
	return home.Accessory{}, false
}

// toolError reports err with its kind so agents can tell retryable
// failures from missing objects.
func toolError(prefix string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s): %s", prefix, home.KindOf(err), err))
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalString(request mcp.CallToolRequest, key string) string {
	s, _ := request.GetArguments()[key].(string)
	return s
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
