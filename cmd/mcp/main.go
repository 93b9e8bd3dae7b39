package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/homectl/pkg/app"
	"github.com/urmzd/homectl/pkg/config"
	homectlmcp "github.com/urmzd/homectl/pkg/mcp"
)

func main() {
	// Logging must go to stderr, stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	settings, err := config.Load("homectl-mcp", os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, settings)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	a.Start(ctx)

	mcpServer := homectlmcp.NewServer(a.Manager, a.Lights, a.Setup)

	log.Info().Msg("Starting MCP server on stdio")

	err = mcpServer.ServeStdio()
	stop()
	a.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
