package config

// Config is the top-level configuration for the execution service.
type Config struct {
	App     AppConfig     `toml:"app"`
	Venue   VenueConfig   `toml:"venue"`
	Trading TradingConfig `toml:"trading"`
	Monitor MonitorConfig `toml:"monitor"`
	Store   StoreConfig   `toml:"store"`
	Notify  NotifyConfig  `toml:"notify"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// VenueConfig describes how to reach the order-placement venue.
// Mode "paper" runs the in-memory connector; "kalshi" hits the REST API.
type VenueConfig struct {
	Mode           string `toml:"mode"`
	APIURL         string `toml:"api_url"`
	Email          string `toml:"email"`
	Password       string `toml:"password"`
	Demo           bool   `toml:"demo"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TradingConfig controls entry behavior.
// ExecutionMode "manual" short-circuits orders to pending_approval;
// "auto" places them immediately.
type TradingConfig struct {
	ExecutionMode string `toml:"execution_mode"`
	BaseContracts int    `toml:"base_contracts"`
}

// MonitorConfig drives the polling loop. RulesPath points at the exit-rule
// file; when empty the built-in defaults apply.
type MonitorConfig struct {
	IntervalSeconds int    `toml:"interval_seconds"`
	RulesPath       string `toml:"rules_path"`
}

type StoreConfig struct {
	DBPath       string `toml:"db_path"`
	AuditLogPath string `toml:"audit_log_path"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}
