// Package app assembles the home services shared by the API and MCP servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/homectl/pkg/config"
	"github.com/urmzd/homectl/pkg/db"
	"github.com/urmzd/homectl/pkg/home"
	"github.com/urmzd/homectl/pkg/metrics"
	"github.com/urmzd/homectl/pkg/mqtt"
	"github.com/urmzd/homectl/pkg/platform/hue"
	"github.com/urmzd/homectl/pkg/platform/local"
)

// platform is a backend that can also commission accessories.
type platform interface {
	home.Platform
	home.Commissioner
}

// App owns the database, the platform and the services built on them.
type App struct {
	DB       *db.DB
	Config   *db.Config
	Manager  *home.Manager
	Lights   *home.Lights
	Setup    *home.AccessorySetup
	Registry *prometheus.Registry

	platform platform
	poller   func(context.Context) error // hue bridge polling, nil otherwise
	mqtt     *mqtt.Client
	wg       sync.WaitGroup
}

// New opens the database and builds the services for s. An unavailable
// platform or broker degrades to a null platform or no export.
func New(ctx context.Context, s *config.Settings) (*App, error) {
	database, err := openDatabase(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(ctx, database, s)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("timezone", cfg.Timezone()).
		Str("local_time", time.Now().In(cfg.Location()).Format(time.Kitchen)).
		Str("api_address", cfg.APIAddress()).
		Msg("Configuration loaded")

	a := &App{
		DB:       database,
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewBuildInfoCollector())
	a.Registry.MustRegister(collectors.NewGoCollector())

	if err := a.openPlatform(ctx, s); err != nil {
		_ = database.Close()
		return nil, err
	}

	recorder := metrics.New(a.Registry)
	a.Manager = home.NewManager(a.platform, home.WithRecorder(recorder))
	a.Lights = home.NewLights(a.platform, home.WithRecorder(recorder))
	a.Setup = home.NewAccessorySetup(a.platform, a.Manager)

	if s.MQTT.Enabled() {
		client, err := mqtt.Connect(mqtt.Config{
			Broker:      s.MQTT.Broker,
			ClientID:    s.MQTT.ClientID,
			Username:    s.MQTT.Username,
			Password:    s.MQTT.Password,
			TopicPrefix: s.MQTT.TopicPrefix,
		})
		if err != nil {
			log.Warn().Err(err).Str("broker", s.MQTT.Broker).Msg("MQTT broker unavailable, event export disabled")
		} else {
			a.mqtt = client
			log.Info().Str("broker", s.MQTT.Broker).Msg("MQTT event export enabled")
		}
	}

	return a, nil
}

func openDatabase(ctx context.Context, path string) (*db.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Info().Str("path", database.Path()).Msg("Database opened")

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to check bootstrap status: %w", err)
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to bootstrap database: %w", err)
		}
		log.Info().Msg("Database bootstrapped successfully")
	}
	return database, nil
}

// loadConfig applies the profile and listen settings, then reads the
// active profile's configuration.
func loadConfig(ctx context.Context, database *db.DB, s *config.Settings) (*db.Config, error) {
	if s.Profile != "" {
		p, err := database.ActivateProfile(ctx, s.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to activate profile %q: %w", s.Profile, err)
		}
		log.Debug().Str("profile", p.Name).Int64("id", p.ID).Msg("Profile activated")
	}

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if s.Listen != "" {
		server, err := database.SetListenAddress(ctx, cfg.ProfileID(), s.Listen)
		if err != nil {
			return nil, err
		}
		cfg.APIServer = server
	}
	return cfg, nil
}

func (a *App) openPlatform(ctx context.Context, s *config.Settings) error {
	switch s.Platform {
	case config.PlatformLocal:
		p := local.New(a.DB, a.Config.ProfileID())
		if s.Seed != "" {
			seed, err := local.LoadSeed(s.Seed)
			if err != nil {
				p.Close()
				return err
			}
			if err := p.ApplySeed(ctx, seed); err != nil {
				p.Close()
				return err
			}
		}
		a.platform = p

	case config.PlatformHue:
		bridge, err := hue.Connect(s.Hue.Host, s.Hue.User)
		if err != nil {
			log.Warn().Err(err).Str("host", s.Hue.Host).Msg("Hue bridge unavailable, using null platform")
			a.platform = home.NewNullPlatform()
			break
		}
		p := hue.New(bridge, s.Hue.PollInterval)
		a.platform = p
		a.poller = p.Run

	default:
		a.platform = home.NewNullPlatform()
	}

	log.Info().Str("platform", s.Platform).Msg("Home platform ready")
	return nil
}

// Start runs the background workers until ctx is done: platform event
// forwarding, bridge polling and MQTT export.
func (a *App) Start(ctx context.Context) {
	a.goRun(ctx, "manager", a.Manager.Run)

	if a.poller != nil {
		a.goRun(ctx, "hue poller", a.poller)
	}

	if a.mqtt != nil {
		events := a.Manager.Subscribe()
		a.goRun(ctx, "mqtt export", func(ctx context.Context) error {
			defer a.Manager.Unsubscribe(events)
			return mqtt.Forward(ctx, a.mqtt, a.mqtt.Topics(), events)
		})
	}
}

func (a *App) goRun(ctx context.Context, name string, run func(context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("worker", name).Msg("Background worker stopped")
		}
	}()
}

// Close waits for the workers started by Start, whose context the caller
// must have cancelled, then releases every resource.
func (a *App) Close() {
	a.platform.Close()
	a.wg.Wait()

	if a.mqtt != nil {
		a.mqtt.Close()
	}
	a.Manager.Close()

	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}
