package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trade-journal/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"JOURNAL_OWNER", "JOURNAL_DB_PATH", "JOURNAL_WEBHOOK_URL", "JOURNAL_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadCreatesTemplate(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template not written: %v", err)
	}
	if cfg.Journal.Owner != "default" {
		t.Errorf("Owner = %q", cfg.Journal.Owner)
	}
	if cfg.Journal.DBPath != filepath.Join(dir, "journal.db") {
		t.Errorf("DBPath = %q", cfg.Journal.DBPath)
	}
	if cfg.Targets.PnLTarget != 1000 || cfg.Targets.TradesTarget != 20 || cfg.Targets.WinRateTarget != 50 {
		t.Errorf("target defaults = %+v", cfg.Targets)
	}
	if cfg.Notifications.Webhook.Timeout != 10*time.Second {
		t.Errorf("webhook timeout = %v", cfg.Notifications.Webhook.Timeout)
	}
	if cfg.Logging.FilePath != filepath.Join(dir, "logs", "journal.log") {
		t.Errorf("log path = %q", cfg.Logging.FilePath)
	}
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `
[journal]
owner = "alice"
db_path = "/tmp/alice.db"

[risk]
daily_loss_limit = 500.0
drawdown_limit = 2000.0

[targets]
default_pnl = 2500.0
default_trades = 30
default_win_rate = 60.0

[notifications]
level = "alerts_only"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Journal.Owner != "alice" || cfg.Journal.DBPath != "/tmp/alice.db" {
		t.Errorf("journal = %+v", cfg.Journal)
	}
	th := cfg.Risk.Thresholds()
	if th.DailyLossLimit != 500 || th.DrawdownLimit != 2000 {
		t.Errorf("thresholds = %+v", th)
	}
	if cfg.Targets.TradesTarget != 30 {
		t.Errorf("TradesTarget = %d", cfg.Targets.TradesTarget)
	}
	if cfg.Notifications.Level != "alerts_only" {
		t.Errorf("Level = %q", cfg.Notifications.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Risk.DefaultPipValue != 10 {
		t.Errorf("DefaultPipValue = %v", cfg.Risk.DefaultPipValue)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOURNAL_OWNER", "bob")
	t.Setenv("JOURNAL_WEBHOOK_URL", "http://localhost:9/hook")
	t.Setenv("JOURNAL_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Journal.Owner != "bob" {
		t.Errorf("Owner = %q", cfg.Journal.Owner)
	}
	if !cfg.Notifications.Webhook.Enabled || cfg.Notifications.Webhook.URL != "http://localhost:9/hook" {
		t.Errorf("webhook = %+v", cfg.Notifications.Webhook)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty owner", func(c *Config) { c.Journal.Owner = " " }},
		{"negative daily limit", func(c *Config) { c.Risk.DailyLossLimit = -1 }},
		{"risk percent over 100", func(c *Config) { c.Risk.DefaultRiskPercent = 150 }},
		{"win rate goal over 100", func(c *Config) { c.Targets.WinRateTarget = 101 }},
		{"bad level", func(c *Config) { c.Notifications.Level = "loud" }},
		{"webhook without url", func(c *Config) { c.Notifications.Webhook.Enabled = true }},
	}

	if err := Default(t.TempDir()).Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrConfigInvalid) {
				t.Errorf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[journal\nowner="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestRedactedHidesWebhookToken(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Notifications.Webhook.URL = "https://hooks.example.com/services/abcdefghijklmnop"

	red := cfg.Redacted()
	if strings.Contains(red.Notifications.Webhook.URL, "efghijkl") {
		t.Errorf("token leaked: %s", red.Notifications.Webhook.URL)
	}
	if cfg.Notifications.Webhook.URL != "https://hooks.example.com/services/abcdefghijklmnop" {
		t.Error("Redacted must not modify the receiver")
	}
}
