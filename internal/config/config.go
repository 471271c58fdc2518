package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"DayAheadArchiver/internal/collector"
)

const (
	SourceEpex   = "epex"
	SourceEntsoe = "entsoe"
)

// Config holds all application configuration.
type Config struct {
	Source           string        `yaml:"source"`
	Timezone         string        `yaml:"timezone"`
	DataDir          string        `yaml:"data_dir"`
	HistoricDir      string        `yaml:"historic_dir"`
	DefaultStartDate string        `yaml:"default_start_date"`
	RequestDelay     time.Duration `yaml:"request_delay"`

	Epex struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"epex"`
	Entsoe struct {
		BaseURL       string `yaml:"base_url"`
		SecurityToken string `yaml:"security_token"`
		Domain        string `yaml:"domain"`
	} `yaml:"entsoe"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	// Environment variable overrides
	if v := os.Getenv("SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("ARCHIVE_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("HISTORIC_DIR"); v != "" {
		cfg.HistoricDir = v
	}
	if v := os.Getenv("SECURITY_TOKEN"); v != "" {
		cfg.Entsoe.SecurityToken = v
	}
	if v := os.Getenv("ENTSOE_DOMAIN"); v != "" {
		cfg.Entsoe.Domain = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Source == "" {
		cfg.Source = SourceEpex
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Paris"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.HistoricDir == "" {
		cfg.HistoricDir = "historicData"
	}
	if cfg.DefaultStartDate == "" {
		cfg.DefaultStartDate = collector.EpexStart
		if cfg.Source == SourceEntsoe {
			cfg.DefaultStartDate = collector.EntsoeStart
		}
	}
	if cfg.Epex.BaseURL == "" {
		cfg.Epex.BaseURL = collector.DefaultEpexURL
	}
	if cfg.Entsoe.BaseURL == "" {
		cfg.Entsoe.BaseURL = collector.DefaultEntsoeURL
	}
	if cfg.Entsoe.Domain == "" {
		cfg.Entsoe.Domain = collector.DefaultEntsoeDomain
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 14 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are usable. The ENTSO-E token
// is deliberately not checked here; the API reports it as unauthorized.
func (c *Config) Validate() error {
	if c.Source != SourceEpex && c.Source != SourceEntsoe {
		return fmt.Errorf("source must be %q or %q, got %q", SourceEpex, SourceEntsoe, c.Source)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.DefaultStart(); err != nil {
		return err
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// Location resolves the archive timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DefaultStart is the first day fetched when nothing is archived yet,
// at midnight in the archive timezone.
func (c *Config) DefaultStart() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation("2006-01-02", c.DefaultStartDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("default_start_date: %w", err)
	}
	return t, nil
}
