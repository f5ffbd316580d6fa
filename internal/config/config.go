// Package config provides configuration management for the trade journal.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/risk"
	"trade-journal/pkg/utils"
)

// Config holds all application configuration.
type Config struct {
	Journal       JournalConfig      `mapstructure:"journal"`
	Risk          RiskConfig         `mapstructure:"risk"`
	Targets       models.TargetGoals `mapstructure:"targets"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       logging.LogConfig  `mapstructure:"logging"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-"`
}

// JournalConfig holds journal-wide settings.
type JournalConfig struct {
	Owner          string `mapstructure:"owner"`
	DBPath         string `mapstructure:"db_path"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DefaultAccount string `mapstructure:"default_account"`
}

// RiskConfig holds risk management configuration.
type RiskConfig struct {
	DailyLossLimit     float64 `mapstructure:"daily_loss_limit"`
	DrawdownLimit      float64 `mapstructure:"drawdown_limit"`
	DefaultRiskPercent float64 `mapstructure:"default_risk_percent"`
	DefaultPipValue    float64 `mapstructure:"default_pip_value"`
	WatchSchedule      string  `mapstructure:"watch_schedule"`
}

// Thresholds returns the daily monitor limits.
func (r RiskConfig) Thresholds() risk.Thresholds {
	return risk.Thresholds{
		DailyLossLimit: r.DailyLossLimit,
		DrawdownLimit:  r.DrawdownLimit,
	}
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Level    string        `mapstructure:"level"` // all, alerts_only, targets_only
	Terminal bool          `mapstructure:"terminal"`
	Bell     bool          `mapstructure:"bell"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from the template and then read.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// A .env in the working directory feeds the environment overrides.
	_ = godotenv.Load()

	cfg := &Config{}
	path, err := loadConfigFile(configDir, "config", cfg)
	if err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	cfg.Path = path

	applyEnvOverrides(cfg)
	cfg.resolvePaths(configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default(configDir string) *Config {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	cfg.resolvePaths(configDir)
	return cfg
}

func setDefaults(v *viper.Viper) {
	logDefaults := logging.DefaultLogConfig()

	v.SetDefault("journal.owner", "default")
	v.SetDefault("journal.db_path", "journal.db")
	v.SetDefault("journal.currency_symbol", "$")
	v.SetDefault("journal.default_account", "")

	v.SetDefault("risk.daily_loss_limit", 0.0)
	v.SetDefault("risk.drawdown_limit", 0.0)
	v.SetDefault("risk.default_risk_percent", 1.0)
	v.SetDefault("risk.default_pip_value", 10.0)
	v.SetDefault("risk.watch_schedule", "@every 1m")

	v.SetDefault("targets.default_pnl", 1000.0)
	v.SetDefault("targets.default_trades", 20)
	v.SetDefault("targets.default_win_rate", 50.0)

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.level", "all")
	v.SetDefault("notifications.terminal", true)
	v.SetDefault("notifications.bell", false)
	v.SetDefault("notifications.webhook.enabled", false)
	v.SetDefault("notifications.webhook.url", "")
	v.SetDefault("notifications.webhook.timeout", 10*time.Second)

	v.SetDefault("logging.level", logDefaults.Level)
	v.SetDefault("logging.console", logDefaults.Console)
	v.SetDefault("logging.file", logDefaults.File)
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size", logDefaults.MaxSize)
	v.SetDefault("logging.max_backups", logDefaults.MaxBackups)
	v.SetDefault("logging.max_age", logDefaults.MaxAge)
}

func loadConfigFile(configDir, name string, target interface{}) (string, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return "", err
		}
		// Config file not found, create template and read it back
		if err := createTemplateConfig(configDir, name); err != nil {
			return "", err
		}
		if err := v.ReadInConfig(); err != nil {
			return "", err
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JOURNAL_OWNER"); v != "" {
		cfg.Journal.Owner = v
	}
	if v := os.Getenv("JOURNAL_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("JOURNAL_WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
		cfg.Notifications.Webhook.Enabled = true
	}
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// resolvePaths anchors relative file paths at the config directory.
func (c *Config) resolvePaths(configDir string) {
	if c.Journal.DBPath != "" && !filepath.IsAbs(c.Journal.DBPath) {
		c.Journal.DBPath = filepath.Join(configDir, c.Journal.DBPath)
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(configDir, "logs", "journal.log")
	} else if !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(configDir, c.Logging.FilePath)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Journal.Owner) == "" {
		return invalid("journal.owner must not be empty")
	}
	if c.Journal.DBPath == "" {
		return invalid("journal.db_path must not be empty")
	}

	if err := c.Risk.Thresholds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	if !inRange(c.Risk.DefaultRiskPercent, 0, 100) {
		return invalid("risk.default_risk_percent must be between 0 and 100")
	}
	if c.Risk.DefaultPipValue < 0 || math.IsNaN(c.Risk.DefaultPipValue) {
		return invalid("risk.default_pip_value must be non-negative")
	}

	if err := c.Targets.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}

	switch c.Notifications.Level {
	case "", "all", "alerts_only", "targets_only":
	default:
		return invalid(fmt.Sprintf("invalid notification level: %s (must be all, alerts_only or targets_only)", c.Notifications.Level))
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return invalid("notifications.webhook.url is required when the webhook is enabled")
	}

	return nil
}

// Redacted returns a copy that is safe to print. The webhook URL carries
// its token in the path or query.
func (c Config) Redacted() Config {
	c.Notifications.Webhook.URL = utils.RedactURL(c.Notifications.Webhook.URL)
	return c
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", errors.ErrConfigInvalid, msg)
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
