// Package config provides configuration management for the scanner.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data        DataConfig  `mapstructure:"data"`
	Quotes      QuoteConfig `mapstructure:"quotes"`
	UI          UIConfig    `mapstructure:"ui"`
	Credentials Credentials `mapstructure:"-"` // Loaded separately
}

// DataConfig holds local data paths.
type DataConfig struct {
	Dir        string `mapstructure:"dir"`         // bhavcopy + state files
	MasterPath string `mapstructure:"master_path"` // instrument master JSON
}

// QuoteConfig holds quote API configuration.
type QuoteConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	MasterURL string `mapstructure:"master_url"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	Upstox UpstoxCredentials `mapstructure:"upstox"`
}

// UpstoxCredentials holds the Upstox market-data credential.
type UpstoxCredentials struct {
	AccessToken string `mapstructure:"access_token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/option-scanner"
	}
	return filepath.Join(home, ".config", "option-scanner")
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	return filepath.Join(DefaultConfigDir(), "data")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyDefaults(cfg *Config) {
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = DefaultDataDir()
	}
	if cfg.Data.MasterPath == "" {
		cfg.Data.MasterPath = filepath.Join(cfg.Data.Dir, "NSE.json")
	}
	if cfg.Quotes.BaseURL == "" {
		cfg.Quotes.BaseURL = "https://api.upstox.com/v3"
	}
	if cfg.Quotes.MasterURL == "" {
		cfg.Quotes.MasterURL = "https://assets.upstox.com/market-quote/instruments/exchange/NSE.json.gz"
	}
	if cfg.UI.DateFormat == "" {
		cfg.UI.DateFormat = "02-Jan-2006"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("UPSTOX_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Upstox.AccessToken = v
	}
	if v := os.Getenv("SCANNER_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
		cfg.Data.MasterPath = filepath.Join(v, "NSE.json")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must not be empty")
	}
	if c.Quotes.BaseURL == "" {
		return fmt.Errorf("quotes.base_url must not be empty")
	}
	return nil
}
