package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config is what the binaries need from the active profile.
type Config struct {
	Profile   *Profile
	APIServer *APIServer // nil when the profile has no stored address
}

// APIAddress is the stored listen address, or 0.0.0.0:8080.
func (c *Config) APIAddress() string {
	if c.APIServer != nil {
		return c.APIServer.Address()
	}
	return net.JoinHostPort(defaultAPIHost, strconv.Itoa(defaultAPIPort))
}

// ProfileID is 0 when no profile is loaded.
func (c *Config) ProfileID() int64 {
	if c.Profile != nil {
		return c.Profile.ID
	}
	return 0
}

// Timezone is the profile's IANA zone name, UTC by default.
func (c *Config) Timezone() string {
	if c.Profile != nil && c.Profile.Timezone != "" {
		return c.Profile.Timezone
	}
	return "UTC"
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone())
	if err != nil {
		return time.UTC
	}
	return loc
}

// ActiveConfig reads the active profile and its listen address.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, ErrNoActiveProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	server, err := db.APIServers().Get(ctx, profile.ID)
	switch {
	case errors.Is(err, ErrAPIServerNotFound):
		server = nil
	case err != nil:
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}
	return &Config{Profile: profile, APIServer: server}, nil
}
