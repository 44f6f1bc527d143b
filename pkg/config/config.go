package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// Scraping service endpoints
	Server struct {
		APIURL      string `toml:"api_url"`      // Base URL the trigger POSTs to
		Origin      string `toml:"origin"`       // Origin the log websocket is derived from
		TriggerPath string `toml:"trigger_path"` // Path of the scrape-start endpoint
		LogsPath    string `toml:"logs_path"`    // Path of the log stream endpoint
	} `toml:"server"`

	// CLI
	CLI struct {
		RequestTimeout int    `toml:"request_timeout"` // Seconds; 0 keeps the transport default
		LogFile        string `toml:"log_file"`        // Empty means tmp/scrape-dash-<timestamp>.log
		LogLevel       string `toml:"log_level"`
	} `toml:"cli"`
}

// DefaultConfig returns a config with default values
// Server defaults match the scraping service's local dev setup
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.APIURL = "http://localhost:8000"
	cfg.Server.Origin = "http://localhost:8000"
	cfg.Server.TriggerPath = "/api/v1/scrap-ingredients"
	cfg.Server.LogsPath = "/ws/logs"
	cfg.CLI.RequestTimeout = 0
	cfg.CLI.LogFile = ""
	cfg.CLI.LogLevel = "info"
	return cfg
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	if p := os.Getenv("SCRAPE_DASH_CONFIG"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "scrape-dash")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from ~/.config/scrape-dash/config.toml
// Creates the file with defaults if it doesn't exist
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from path, creating it with defaults when missing.
// The result holds file values only; use Effective for env overrides.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeDefaults(&cfg)

	return &cfg, nil
}

// Effective returns a copy of cfg with environment overrides applied.
// cfg itself is left as read from the file so it can be saved back.
func (cfg *Config) Effective() *Config {
	eff := *cfg
	applyEnv(&eff)
	return &eff
}

// mergeDefaults fills any missing values from DefaultConfig
func mergeDefaults(cfg *Config) {
	defaultCfg := DefaultConfig()
	if cfg.Server.APIURL == "" {
		cfg.Server.APIURL = defaultCfg.Server.APIURL
	}
	if cfg.Server.Origin == "" {
		cfg.Server.Origin = defaultCfg.Server.Origin
	}
	if cfg.Server.TriggerPath == "" {
		cfg.Server.TriggerPath = defaultCfg.Server.TriggerPath
	}
	if cfg.Server.LogsPath == "" {
		cfg.Server.LogsPath = defaultCfg.Server.LogsPath
	}
	if cfg.CLI.LogLevel == "" {
		cfg.CLI.LogLevel = defaultCfg.CLI.LogLevel
	}
	if cfg.CLI.RequestTimeout < 0 {
		cfg.CLI.RequestTimeout = 0
	}
}

// Override with environment variables if set (useful for Docker)
func applyEnv(cfg *Config) {
	if apiURL := os.Getenv("SCRAPE_DASH_API_URL"); apiURL != "" {
		cfg.Server.APIURL = apiURL
	}
	if origin := os.Getenv("SCRAPE_DASH_ORIGIN"); origin != "" {
		cfg.Server.Origin = origin
	}
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the configuration to configPath
func SaveTo(cfg *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetValue sets a configuration value in memory.
// Format: section.key=value (e.g., "server.api_url=http://localhost:8000")
func (cfg *Config) SetValue(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]

	switch section {
	case "server":
		switch key {
		case "api_url":
			u, err := validateURL(value)
			if err != nil {
				return err
			}
			cfg.Server.APIURL = u
		case "origin":
			u, err := validateURL(value)
			if err != nil {
				return err
			}
			cfg.Server.Origin = u
		case "trigger_path":
			cfg.Server.TriggerPath = value
		case "logs_path":
			cfg.Server.LogsPath = value
		default:
			return fmt.Errorf("unknown server key: %s", key)
		}
	case "cli":
		switch key {
		case "request_timeout":
			timeout, err := strconv.Atoi(value)
			if err != nil || timeout < 0 {
				return fmt.Errorf("invalid request_timeout value: %s", value)
			}
			cfg.CLI.RequestTimeout = timeout
		case "log_file":
			cfg.CLI.LogFile = value
		case "log_level":
			cfg.CLI.LogLevel = value
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return nil
}

// validateURL trims and validates an http(s) base URL
func validateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid URL %q: scheme must be http or https", s)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", s)
	}
	return s, nil
}
