// Package config loads runtime settings from HOLLOWGATE_* environment
// variables and optional YAML balance overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/hollowgate/internal/gamedata"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("config: invalid")

const envPrefix = "HOLLOWGATE_"

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible field layout,
	// wander targets and storm strikes. A seed of 0 means a time-based seed.
	Seed int64

	TickRate      int     // Simulation ticks per second
	MaxFrameDelta float64 // Largest dt handed to a single tick, in seconds

	LogLevel  string
	LogFormat string // "json" or "console"
	LogFile   string // Empty logs to stderr; the terminal UI owns stdout

	StoreDriver string // memory, file or postgres
	StorePath   string
	DatabaseURL string

	BalanceFile string // Optional YAML overriding the embedded balance
	Telemetry   bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickRate:      30,
		MaxFrameDelta: 0.1,
		LogLevel:      "info",
		LogFormat:     "console",
		LogFile:       "hollowgate.log",
		StoreDriver:   "file",
		StorePath:     "hollowgate-progress.json",
		Telemetry:     true,
	}
}

// Load reads the environment on top of Default and validates the result.
func Load() (Config, error) {
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config using lookup for environment access.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: SEED %q: %v", ErrInvalid, v, err)
		}
		cfg.Seed = n
	}
	if v, ok := get("TICK_RATE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: TICK_RATE %q: %v", ErrInvalid, v, err)
		}
		cfg.TickRate = n
	}
	if v, ok := get("MAX_FRAME_DELTA"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: MAX_FRAME_DELTA %q: %v", ErrInvalid, v, err)
		}
		cfg.MaxFrameDelta = f
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := get("STORE"); ok {
		cfg.StoreDriver = strings.ToLower(v)
	}
	if v, ok := get("STORE_PATH"); ok {
		cfg.StorePath = v
	}
	if v, ok := get("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := get("BALANCE_FILE"); ok {
		cfg.BalanceFile = v
	}
	if v, ok := get("TELEMETRY"); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: TELEMETRY %q: %v", ErrInvalid, v, err)
		}
		cfg.Telemetry = on
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the runtime cannot use.
func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 240 {
		return fmt.Errorf("%w: tick rate %d outside 1..240", ErrInvalid, c.TickRate)
	}
	if !(c.MaxFrameDelta > 0) || c.MaxFrameDelta > 1 {
		return fmt.Errorf("%w: max frame delta %v outside (0, 1]", ErrInvalid, c.MaxFrameDelta)
	}
	switch c.StoreDriver {
	case "memory":
	case "file":
		if c.StorePath == "" {
			return fmt.Errorf("%w: file store needs STORE_PATH", ErrInvalid)
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: postgres store needs DATABASE_URL", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalid, c.StoreDriver)
	}
	return nil
}

// LoadBalance applies the YAML document at path over base. Fields missing
// from the document keep their base values. An empty path returns base.
func LoadBalance(path string, base gamedata.Balance) (gamedata.Balance, error) {
	if path == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read balance %s: %w", path, err)
	}
	return ParseBalance(raw, base)
}

// ParseBalance applies a YAML document over base and validates the result.
func ParseBalance(raw []byte, base gamedata.Balance) (gamedata.Balance, error) {
	merged := base
	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return base, fmt.Errorf("%w: balance yaml: %v", ErrInvalid, err)
	}
	if err := merged.Validate(); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return merged, nil
}
