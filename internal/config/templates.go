package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[journal]
# Journal owner; every trade, target and profile is scoped to it
owner = "default"
# SQLite database, relative paths are resolved against this directory
db_path = "journal.db"
# Currency symbol used in reports
currency_symbol = "$"
# Account applied to new trades when --account is not given
default_account = ""

[risk]
# Daily loss limit as a positive amount, 0 disables the alert
daily_loss_limit = 0.0
# Lifetime net loss limit as a positive amount, 0 disables the alert
drawdown_limit = 0.0
# Position size calculator defaults
default_risk_percent = 1.0
default_pip_value = 10.0
# Cron schedule used by "risk watch"
watch_schedule = "@every 1m"

[targets]
# Goals applied when a month has no target yet
default_pnl = 1000.0
default_trades = 20
default_win_rate = 50.0

[notifications]
enabled = true
# Notification level: all, alerts_only, targets_only
level = "all"
# Print notifications to the terminal
terminal = true
# Ring the terminal bell on risk alerts
bell = false

[notifications.webhook]
enabled = false
url = ""
timeout = "10s"

[logging]
# Log level: debug, info, warn, error
level = "warn"
console = true
file = false
file_path = "logs/journal.log"
max_size = 10
max_backups = 5
max_age = 30
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
