package db

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Listen address stored for a new profile.
const (
	defaultAPIHost = "0.0.0.0"
	defaultAPIPort = 8080
)

const defaultProfile = "default"

// Bootstrap creates the active "default" profile on a fresh database.
func (db *DB) Bootstrap(ctx context.Context) error {
	needed, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !needed {
		return nil
	}
	if _, err := db.ActivateProfile(ctx, defaultProfile); err != nil {
		return fmt.Errorf("failed to create default profile: %w", err)
	}
	return nil
}

// NeedsBootstrap reports whether no profile exists yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles)`).Scan(&exists); err != nil {
		return false, err
	}
	return !exists, nil
}

// timezoneProbes are tried in order; the first valid IANA name wins.
var timezoneProbes = []func() string{
	func() string { return os.Getenv("TZ") },
	func() string {
		out, _ := exec.Command("timedatectl", "show", "--property=Timezone", "--value").Output()
		return string(out)
	},
	func() string {
		data, _ := os.ReadFile("/etc/timezone")
		return string(data)
	},
	func() string {
		link, err := os.Readlink("/etc/localtime")
		if err != nil {
			return ""
		}
		_, zone, _ := strings.Cut(link, "zoneinfo/")
		return zone
	},
}

// detectTimezone returns the host's timezone, or UTC when nothing usable
// is found.
func detectTimezone() string {
	for _, probe := range timezoneProbes {
		tz := strings.TrimSpace(probe())
		if tz == "" {
			continue
		}
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	return "UTC"
}
