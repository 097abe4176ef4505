package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Dealer service connection
	Server ServerConfig `toml:"server"`

	// Table presentation settings
	Table TableConfig `toml:"table"`

	// Sound cue settings
	Sound SoundConfig `toml:"sound"`

	// Local round-history settings
	History HistoryConfig `toml:"history"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains dealer connection settings.
type ServerConfig struct {
	BaseURL string `toml:"base_url"` // Dealer service base URL
	Timeout string `toml:"timeout"`  // Request timeout (e.g., "10s")
}

// TableConfig contains table presentation settings.
type TableConfig struct {
	Animations        bool   `toml:"animations"`         // Animate dealt cards
	DealStagger       string `toml:"deal_stagger"`       // Delay between dealt cards (e.g., "180ms")
	ChipDenominations []int  `toml:"chip_denominations"` // Chip rail buttons
}

// SoundConfig contains sound cue settings.
type SoundConfig struct {
	Enabled bool `toml:"enabled"` // Play sound cues at all
	Muted   bool `toml:"muted"`   // Temporarily silence cues
}

// HistoryConfig contains local round-history settings.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"` // Record finished rounds locally
	DBPath  string `toml:"db_path"` // SQLite path ("" = default location)
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080",
			Timeout: "10s",
		},
		Table: TableConfig{
			Animations:        true,
			DealStagger:       "180ms",
			ChipDenominations: []int{5, 25, 100, 500},
		},
		Sound: SoundConfig{
			Enabled: true,
			Muted:   false,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".blackjack-table")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base URL cannot be empty")
	}

	if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
		return fmt.Errorf("invalid server timeout %q: %w", c.Server.Timeout, err)
	}

	if _, err := time.ParseDuration(c.Table.DealStagger); err != nil {
		return fmt.Errorf("invalid deal stagger %q: %w", c.Table.DealStagger, err)
	}

	if len(c.Table.ChipDenominations) == 0 {
		return fmt.Errorf("at least one chip denomination is required")
	}
	for _, denom := range c.Table.ChipDenominations {
		if denom <= 0 {
			return fmt.Errorf("chip denominations must be positive, got %d", denom)
		}
	}

	return nil
}

// GetTimeout returns the dealer request timeout as a duration.
func (c *Config) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.Timeout)
}

// GetDealStagger returns the per-card deal delay as a duration.
func (c *Config) GetDealStagger() (time.Duration, error) {
	return time.ParseDuration(c.Table.DealStagger)
}
