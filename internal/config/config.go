package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads a YAML config file and returns the validated configuration
// with defaults filled for every key the file didn't set.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = "info"
	}
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = "dev"
	}
	if strings.TrimSpace(c.Venue.Mode) == "" {
		c.Venue.Mode = "paper"
	}
	if c.Venue.TimeoutSeconds <= 0 {
		c.Venue.TimeoutSeconds = 15
	}
	if strings.TrimSpace(c.Trading.ExecutionMode) == "" {
		c.Trading.ExecutionMode = "manual"
	}
	if c.Trading.BaseContracts <= 0 {
		c.Trading.BaseContracts = 10
	}
	if c.Monitor.IntervalSeconds <= 0 {
		c.Monitor.IntervalSeconds = 30
	}
	if strings.TrimSpace(c.Store.DBPath) == "" {
		c.Store.DBPath = "data/parlay.db"
	}
	if strings.TrimSpace(c.Store.AuditLogPath) == "" {
		c.Store.AuditLogPath = "data/executions.db"
	}
}

func validate(c *Config) error {
	switch strings.ToLower(strings.TrimSpace(c.Venue.Mode)) {
	case "paper":
	case "kalshi":
		if !c.Venue.Demo && strings.TrimSpace(c.Venue.Email) == "" {
			return fmt.Errorf("venue.email is required for live kalshi mode")
		}
	default:
		return fmt.Errorf("venue.mode %q not in {paper, kalshi}", c.Venue.Mode)
	}
	switch strings.ToLower(strings.TrimSpace(c.Trading.ExecutionMode)) {
	case "manual", "auto":
	default:
		return fmt.Errorf("trading.execution_mode %q not in {manual, auto}", c.Trading.ExecutionMode)
	}
	if c.Notify.Telegram.Enabled {
		if strings.TrimSpace(c.Notify.Telegram.BotToken) == "" || strings.TrimSpace(c.Notify.Telegram.ChatID) == "" {
			return fmt.Errorf("notify.telegram requires bot_token and chat_id when enabled")
		}
	}
	return nil
}
