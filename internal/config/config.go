// Package config loads and saves the budgetpulse TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const appName = "budgetpulse"

// Config holds all budgetpulse configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	TUI        TUIConfig        `toml:"tui"`
	Notify     NotifyConfig     `toml:"notify"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath      string `toml:"db_path,omitempty"`
	Currency    string `toml:"currency"`
	HorizonDays int    `toml:"horizon_days"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds settings for the background insight daemon.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// NotifyConfig holds AMQP publishing settings. Publishing is off when
// no URL is configured.
type NotifyConfig struct {
	AMQPURL    string `toml:"amqp_url,omitempty"`
	Exchange   string `toml:"exchange"`
	RoutingKey string `toml:"routing_key"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency:    "$",
			HorizonDays: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8788",
			IntervalSec:  5,
			EventsBuffer: 200,
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 15,
		},
		Notify: NotifyConfig{
			Exchange:   "budgetpulse",
			RoutingKey: "insights",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database
// and daemon runtime files.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultDBPath returns the default household database location.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "household.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetDBPath returns the database path from env var, config, or the default,
// in that order.
func GetDBPath(cfg Config) string {
	if p := os.Getenv("BUDGETPULSE_DB"); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return DefaultDBPath()
}

// GetAMQPURL returns the broker URL from env var or config, in that order.
func GetAMQPURL(cfg Config) string {
	if u := os.Getenv("BUDGETPULSE_AMQP_URL"); u != "" {
		return u
	}
	return cfg.Notify.AMQPURL
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.General.Currency) == "" {
		errs = append(errs, "general.currency must not be empty")
	}
	if c.General.HorizonDays < 1 {
		errs = append(errs, "general.horizon_days must be at least 1")
	}
	if c.Daemon.Addr == "" {
		errs = append(errs, "daemon.addr must not be empty")
	}
	if c.Daemon.IntervalSec < 1 {
		errs = append(errs, "daemon.interval_sec must be at least 1")
	}
	if c.Daemon.EventsBuffer < 1 {
		errs = append(errs, "daemon.events_buffer must be at least 1")
	}
	if c.TUI.RefreshIntervalSec < 1 {
		errs = append(errs, "tui.refresh_interval_sec must be at least 1")
	}
	if GetAMQPURL(c) != "" && c.Notify.Exchange == "" {
		errs = append(errs, "notify.exchange is required when an AMQP URL is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
