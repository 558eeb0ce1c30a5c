package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Common errors
var (
	ErrWindowInverted  = errors.New("attendance window start must not be after end")
	ErrBadWindowBound  = errors.New("attendance window bound must be HH:MM")
	ErrUnknownGeofence = errors.New("unknown geofence mode")
)

// GeofenceMode names the geofence enforcement policy. Only advisory mode
// ships: an out-of-boundary point annotates the record, it never blocks it.
type GeofenceMode string

const (
	GeofenceAdvisory GeofenceMode = "advisory"
)

// Config holds runtime configuration for the attendance backend.
type Config struct {
	// HTTP listen port
	Port string `yaml:"port"`

	// Attendance window bounds, minutes since local midnight, inclusive.
	WindowStartMinute int `yaml:"-"`
	WindowEndMinute   int `yaml:"-"`

	// Raw HH:MM forms as they appear in config.yaml / env.
	WindowStart string `yaml:"window_start"`
	WindowEnd   string `yaml:"window_end"`

	Geofence GeofenceMode `yaml:"geofence_mode"`
}

// Defaults: marking is allowed 06:00–11:00 inclusive.
const (
	DefaultWindowStart = "06:00"
	DefaultWindowEnd   = "11:00"
	DefaultPort        = "5050"
)

// Load reads config.yaml (optional) and then applies environment overrides.
//
// Environment variables:
//   - PORT: HTTP listen port (default: "5050")
//   - ATTENDANCE_WINDOW_START: HH:MM lower bound (default: "06:00")
//   - ATTENDANCE_WINDOW_END: HH:MM upper bound (default: "11:00")
//   - GEOFENCE_MODE: "advisory" (default: "advisory")
func Load(path string) (Config, error) {
	cfg := Config{
		Port:        DefaultPort,
		WindowStart: DefaultWindowStart,
		WindowEnd:   DefaultWindowEnd,
		Geofence:    GeofenceAdvisory,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// config file is optional; env + defaults take over
		default:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ATTENDANCE_WINDOW_START"); v != "" {
		cfg.WindowStart = v
	}
	if v := os.Getenv("ATTENDANCE_WINDOW_END"); v != "" {
		cfg.WindowEnd = v
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("GEOFENCE_MODE"))); v != "" {
		cfg.Geofence = GeofenceMode(v)
	}

	var err error
	if cfg.WindowStartMinute, err = parseClock(cfg.WindowStart); err != nil {
		return Config{}, err
	}
	if cfg.WindowEndMinute, err = parseClock(cfg.WindowEnd); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration is coherent.
func (c Config) Validate() error {
	if c.WindowStartMinute > c.WindowEndMinute {
		return ErrWindowInverted
	}
	switch c.Geofence {
	case GeofenceAdvisory:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGeofence, c.Geofence)
	}
	return nil
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadWindowBound, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadWindowBound, s)
	}
	return h*60 + m, nil
}
