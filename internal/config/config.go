package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when the config file omits a field.
const (
	DefaultAPIURL          = "https://local.hasura.local.nhost.run:444"
	DefaultMarketplaceURL  = "https://trustfolio.dev"
	DefaultMarketplaceHost = "trustfolio.co"
	DefaultLocale          = "FR_FR"
	DefaultLookupTimeout   = 5 * time.Second
	DefaultCacheTTL        = 30 * time.Second
	DefaultLogLevel        = "info"
)

// Config holds editor configuration stored at ~/.richtext/config.
type Config struct {
	APIURL          string        `yaml:"api_url"`
	MarketplaceURL  string        `yaml:"marketplace_url"`
	MarketplaceHost string        `yaml:"marketplace_host"`
	Locale          string        `yaml:"locale"`
	LookupTimeout   time.Duration `yaml:"lookup_timeout"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	LogLevel        string        `yaml:"log_level"`
	VimKeys         bool          `yaml:"vim_keys"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Dir returns the config directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".richtext")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// LogPath returns the file the TUI logs to.
func LogPath() string {
	return filepath.Join(Dir(), "richtext.log")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm&0o022 != 0 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault is Load with a missing file treated as the default config.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(c.MarketplaceURL) == "" {
		c.MarketplaceURL = DefaultMarketplaceURL
	}
	if strings.TrimSpace(c.MarketplaceHost) == "" {
		c.MarketplaceHost = DefaultMarketplaceHost
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = DefaultLocale
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config api_url must be an http(s) url: %q", c.APIURL)
	}
	if !strings.HasPrefix(c.MarketplaceURL, "http://") && !strings.HasPrefix(c.MarketplaceURL, "https://") {
		return fmt.Errorf("config marketplace_url must be an http(s) url: %q", c.MarketplaceURL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config log_level must be debug, info, warn or error: %q", c.LogLevel)
	}
	return nil
}
