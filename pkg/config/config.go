// Package config loads homectl startup settings from flags, environment and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Platform backends
const (
	PlatformLocal = "local"
	PlatformHue   = "hue"
	PlatformNull  = "null"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Settings are the startup settings. The listen address is stored with the
// database profile; Listen overwrites it for the selected profile.
type Settings struct {
	DB       string `mapstructure:"db"`
	Profile  string `mapstructure:"profile"`
	Listen   string `mapstructure:"listen"`
	Platform string `mapstructure:"platform"`
	Seed     string `mapstructure:"seed"`
	Hue      Hue    `mapstructure:"hue"`
	MQTT     MQTT   `mapstructure:"mqtt"`
}

// Hue configures the Hue bridge platform.
type Hue struct {
	Host         string        `mapstructure:"host"`
	User         string        `mapstructure:"user"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// MQTT configures event export. An empty broker disables it.
type MQTT struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// Enabled reports whether a broker is configured.
func (m MQTT) Enabled() bool {
	return m.Broker != ""
}

// Flags returns the command-line flags for name.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("db", "", "database path (default ~/.config/homectl/homectl.db)")
	fs.String("profile", "", "profile to activate, created when missing")
	fs.String("listen", "", "API listen address to store for the profile, e.g. :8080")
	fs.String("platform", PlatformLocal, "home platform: local, hue or null")
	fs.String("seed", "", "YAML fixture of homes to load into the local platform")
	fs.String("hue.host", "", "Hue bridge address")
	fs.String("hue.user", "", "Hue bridge username")
	fs.Duration("hue.poll_interval", 5*time.Second, "Hue bridge poll interval")
	fs.String("mqtt.broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	fs.String("mqtt.client_id", name, "MQTT client id")
	fs.String("mqtt.username", "", "MQTT username")
	fs.String("mqtt.password", "", "MQTT password")
	fs.String("mqtt.topic_prefix", "homectl", "MQTT topic prefix")
	return fs
}

// Load parses args and merges flags, HOMECTL_* environment variables and the
// config file, in that order of precedence.
func Load(name string, args []string) (*Settings, error) {
	fs := Flags(name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("homectl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the platform choice.
func (s *Settings) Validate() error {
	switch s.Platform {
	case PlatformLocal, PlatformHue, PlatformNull:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, s.Platform)
	}
}
