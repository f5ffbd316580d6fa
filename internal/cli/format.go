package cli

import (
	"fmt"
	"strings"
	"time"

	"trade-journal/internal/errors"
	"trade-journal/pkg/utils"
)

// FormatRiskReward formats a risk-reward ratio, or "-" when there is none.
func FormatRiskReward(rr *float64) string {
	if rr == nil {
		return "-"
	}
	return fmt.Sprintf("1:%.2f", *rr)
}

// FormatLots formats a position size in lots.
func FormatLots(lots float64) string {
	return fmt.Sprintf("%.4f lots", lots)
}

// FormatWinRate formats a win rate percentage without sign.
func FormatWinRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// ParseMonth parses a YYYY-MM month. An empty string means the month
// containing today.
func ParseMonth(s, today string) (int, time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return utils.YearMonth(today)
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, errors.NewValidationError("month", s, "must be YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}
