package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/homectl/pkg/home"
)

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of homectl and whether the home platform is authorized"),
		),
		s.handleGetHealth,
	)

	// Registry
	s.mcpServer.AddTool(
		mcp.NewTool("list_homes",
			mcp.WithDescription("List all homes with their accessories"),
		),
		s.handleListHomes,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("create_home",
			mcp.WithDescription("Create a new home"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Display name of the new home"),
			),
		),
		s.handleCreateHome,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_home",
			mcp.WithDescription("Delete a home. Every accessory in it is removed first; accessories that fail to remove do not stop the deletion."),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
		),
		s.handleDeleteHome,
	)

	// Commissioning
	s.mcpServer.AddTool(
		mcp.NewTool("add_accessory",
			mcp.WithDescription("Add an accessory to a home by running the platform's pairing flow"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
			mcp.WithString("setup_code",
				mcp.Description("Matter manual pairing code (11 or 21 digits)"),
			),
			mcp.WithString("name",
				mcp.Description("Friendly name for the new accessory"),
			),
			mcp.WithString("category",
				mcp.Description("Accessory category"),
				mcp.Enum(home.CategoryLightbulb, home.CategoryOutlet, home.CategorySwitch, home.CategorySensor),
			),
		),
		s.handleAddAccessory,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("remove_accessory",
			mcp.WithDescription("Remove an accessory from its home"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
			mcp.WithString("accessory",
				mcp.Required(),
				mcp.Description("Accessory ID or name"),
			),
		),
		s.handleRemoveAccessory,
	)

	// Lights
	s.mcpServer.AddTool(
		mcp.NewTool("list_lights",
			mcp.WithDescription("List the lights of a home with their last known power state"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
		),
		s.handleListLights,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_power_state",
			mcp.WithDescription("Read a light's current power state from the device"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
			mcp.WithString("light",
				mcp.Required(),
				mcp.Description("Light accessory ID or name"),
			),
		),
		s.handleGetPowerState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_light",
			mcp.WithDescription("Switch a light to the opposite of its last known power state"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
			mcp.WithString("light",
				mcp.Required(),
				mcp.Description("Light accessory ID or name"),
			),
		),
		s.handleToggleLight,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn on a light"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
			mcp.WithString("light",
				mcp.Required(),
				mcp.Description("Light accessory ID or name"),
			),
		),
		s.handleTurnOn,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn off a light"),
			mcp.WithString("home",
				mcp.Required(),
				mcp.Description("Home ID or name"),
			),
			mcp.WithString("light",
				mcp.Required(),
				mcp.Description("Light accessory ID or name"),
			),
		),
		s.handleTurnOff,
	)
}
