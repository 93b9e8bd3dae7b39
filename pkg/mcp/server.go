package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/homectl/pkg/home"
)

// Server wraps the MCP server with homectl's registry and light control
type Server struct {
	mcpServer *server.MCPServer
	manager   *home.Manager
	lights    *home.Lights
	setup     *home.AccessorySetup
}

// NewServer creates a new MCP server over the shared home services
func NewServer(manager *home.Manager, lights *home.Lights, setup *home.AccessorySetup) *Server {
	s := &Server{
		manager: manager,
		lights:  lights,
		setup:   setup,
	}

	s.mcpServer = server.NewMCPServer(
		"homectl",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
