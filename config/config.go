// Package config loads server configuration from an optional .env file, an
// optional YAML file and environment variables, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sink kinds.
const (
	SinkMemory   = "memory"
	SinkPostgres = "postgres"
	SinkBadger   = "badger"
)

// Config is the server configuration.
type Config struct {
	ListenAddr   string        `yaml:"listen_addr" validate:"required"`
	Sink         string        `yaml:"sink" validate:"oneof=memory postgres badger"`
	DatabaseURL  string        `yaml:"database_url" validate:"required_if=Sink postgres"`
	BadgerPath   string        `yaml:"badger_path" validate:"required_if=Sink badger"`
	MemoryQuota  int           `yaml:"memory_quota" validate:"gte=0"`
	LogLevel     string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	Debounce     time.Duration `yaml:"autosave_debounce" validate:"gt=0"`
	MinSaving    time.Duration `yaml:"autosave_min_saving" validate:"gte=0"`
	SavedDisplay time.Duration `yaml:"autosave_saved_display" validate:"gte=0"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ListenAddr:   ":3000",
		Sink:         SinkMemory,
		MemoryQuota:  5 << 20,
		LogLevel:     "info",
		Debounce:     2000 * time.Millisecond,
		MinSaving:    500 * time.Millisecond,
		SavedDisplay: 2000 * time.Millisecond,
	}
}

var validate = validator.New()

// Load builds the configuration. A missing .env file is not an error; a
// missing file named by WORKFLOW_CONFIG is.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("WORKFLOW_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	cfg.Sink = strings.ToLower(cfg.Sink)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := map[string]*string{
		"LISTEN_ADDR":  &cfg.ListenAddr,
		"SINK":         &cfg.Sink,
		"DATABASE_URL": &cfg.DatabaseURL,
		"BADGER_PATH":  &cfg.BadgerPath,
		"LOG_LEVEL":    &cfg.LogLevel,
	}
	for k, p := range str {
		if v := getenv(k); v != "" {
			*p = v
		}
	}

	dur := map[string]*time.Duration{
		"AUTOSAVE_DEBOUNCE":      &cfg.Debounce,
		"AUTOSAVE_MIN_SAVING":    &cfg.MinSaving,
		"AUTOSAVE_SAVED_DISPLAY": &cfg.SavedDisplay,
	}
	var errs []error
	for k, p := range dur {
		v := getenv(k)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", k, err))
			continue
		}
		*p = d
	}

	if v := getenv("MEMORY_QUOTA"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			errs = append(errs, fmt.Errorf("config: MEMORY_QUOTA: %w", err))
		} else {
			cfg.MemoryQuota = n
		}
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
