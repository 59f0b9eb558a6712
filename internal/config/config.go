package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DemoInterval is the polling interval used when demo mode is on.
const DemoInterval = time.Second

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`
	Polling struct {
		Interval     time.Duration `yaml:"interval"`
		Demo         bool          `yaml:"demo"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"polling"`
	DataSource struct {
		BaseURL   string  `yaml:"base_url"`
		UserAgent string  `yaml:"user_agent"`
		Mock      bool    `yaml:"mock"`
		MockPrice float64 `yaml:"mock_price"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		Disabled   bool   `yaml:"disabled"`
	} `yaml:"database"`
	Watchlist struct {
		Path        string `yaml:"path"`
		CryptoQuote string `yaml:"crypto_quote"`
	} `yaml:"watchlist"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse POLL_INTERVAL: %w", err)
		}
		c.Polling.Interval = d
	}
	if v := os.Getenv("DEMO_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse DEMO_MODE: %w", err)
		}
		c.Polling.Demo = b
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FETCH_TIMEOUT: %w", err)
		}
		c.Polling.FetchTimeout = d
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCHLIST_PATH"); v != "" {
		c.Watchlist.Path = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Polling.Interval == 0 {
		c.Polling.Interval = 10 * time.Second
	}
	if c.Polling.FetchTimeout == 0 {
		c.Polling.FetchTimeout = 15 * time.Second
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.DataSource.UserAgent == "" {
		c.DataSource.UserAgent = "Mozilla/5.0"
	}
	if c.DataSource.MockPrice == 0 {
		c.DataSource.MockPrice = 100
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/tickerboard.db"
	}
	if c.Watchlist.Path == "" {
		c.Watchlist.Path = "configs/watchlist.yaml"
	}
	if c.Watchlist.CryptoQuote == "" {
		c.Watchlist.CryptoQuote = "USD"
	}
}

// PollInterval returns the effective polling interval.
func (c *Config) PollInterval() time.Duration {
	if c.Polling.Demo {
		return DemoInterval
	}
	return c.Polling.Interval
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Polling.Interval < time.Second {
		return fmt.Errorf("polling.interval must be at least 1s, got %s", c.Polling.Interval)
	}
	if c.Polling.FetchTimeout <= 0 {
		return fmt.Errorf("polling.fetch_timeout must be positive")
	}
	if c.DataSource.MockPrice < 0 {
		return fmt.Errorf("data_source.mock_price must not be negative")
	}
	if _, err := url.ParseRequestURI(c.DataSource.BaseURL); err != nil {
		return fmt.Errorf("data_source.base_url: %w", err)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("proxy: %w", err)
		}
	}
	if c.Watchlist.Path == "" {
		return fmt.Errorf("watchlist.path is required")
	}
	return nil
}
