package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/homectl/pkg/api"
	"github.com/urmzd/homectl/pkg/app"
	"github.com/urmzd/homectl/pkg/config"

	_ "github.com/urmzd/homectl/docs"
)

// @title           homectl API
// @version         1.0
// @description     REST API for managing homes, commissioning accessories and controlling lights

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	settings, err := config.Load("homectl-api", os.Args[1:])
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

	router := api.NewRouter(api.Deps{
		Manager:  a.Manager,
		Lights:   a.Lights,
		Setup:    a.Setup,
		Gatherer: a.Registry,
	})

	addr := a.Config.APIAddress()
	log.Info().Str("address", addr).Msg("Starting API server")

	err = router.Run(ctx, addr)
	stop()
	a.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Shut down")
}
