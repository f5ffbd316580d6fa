// Package notify provides notification functionality for the trade journal.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/risk"
	"trade-journal/pkg/utils"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendTradeRecorded(ctx context.Context, trade models.TradeRecord) error
	SendRiskAlert(ctx context.Context, alert risk.Alert) error
	SendTargetCompleted(ctx context.Context, target models.MonthlyTarget) error
}

// NotificationChannel defines the interface for a notification channel.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTrade  NotificationType = "trade"
	NotificationAlert  NotificationType = "alert"
	NotificationTarget NotificationType = "target"
	NotificationInfo   NotificationType = "info"
)

// NotificationLevel represents the notification level filter.
type NotificationLevel string

const (
	LevelAll         NotificationLevel = "all"
	LevelAlertsOnly  NotificationLevel = "alerts_only"
	LevelTargetsOnly NotificationLevel = "targets_only"
)

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []NotificationChannel
	level    NotificationLevel
	currency string
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMultiNotifier creates a MultiNotifier from configuration. Terminal
// output goes to out. A disabled configuration yields a notifier with no
// channels.
func NewMultiNotifier(cfg config.NotificationConfig, currency string, out io.Writer) *MultiNotifier {
	mn := &MultiNotifier{
		channels: make([]NotificationChannel, 0),
		level:    NotificationLevel(cfg.Level),
		currency: currency,
		now:      time.Now,
	}

	if mn.level == "" {
		mn.level = LevelAll
	}
	if mn.currency == "" {
		mn.currency = utils.DefaultCurrencySymbol
	}
	if !cfg.Enabled {
		return mn
	}

	if cfg.Terminal && out != nil {
		tn := NewTerminalNotifier(out)
		tn.SetBellEnabled(cfg.Bell)
		mn.channels = append(mn.channels, tn)
	}
	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookNotifier(cfg.Webhook))
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch NotificationChannel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// Channels returns the names of the registered channels.
func (mn *MultiNotifier) Channels() []string {
	mn.mu.RLock()
	defer mn.mu.RUnlock()
	names := make([]string, 0, len(mn.channels))
	for _, ch := range mn.channels {
		names = append(names, ch.Name())
	}
	return names
}

// shouldSend checks if a notification should be sent based on the level filter.
func (mn *MultiNotifier) shouldSend(notifType NotificationType) bool {
	switch mn.level {
	case LevelAlertsOnly:
		return notifType == NotificationAlert
	case LevelTargetsOnly:
		return notifType == NotificationTarget
	default:
		return true
	}
}

// Send sends a notification to all enabled channels. Every channel is
// attempted; failures are joined into one error wrapping ErrNotifyFailed.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !mn.shouldSend(n.Type) {
		return nil
	}

	if n.Timestamp.IsZero() {
		n.Timestamp = mn.now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []string
	for _, ch := range channels {
		if ch.IsEnabled() {
			if err := ch.Send(ctx, n); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", errors.ErrNotifyFailed, strings.Join(errs, "; "))
	}
	return nil
}

// SendTradeRecorded announces a newly journaled trade.
func (mn *MultiNotifier) SendTradeRecorded(ctx context.Context, trade models.TradeRecord) error {
	return mn.Send(ctx, Notification{
		Type:  NotificationTrade,
		Title: fmt.Sprintf("Trade recorded: %s %s", trade.Direction, trade.Symbol),
		Message: fmt.Sprintf("%s %s net %s on %s",
			trade.Direction, trade.Symbol, utils.FormatPnL(trade.NetPL, mn.currency), trade.Date),
		Data: map[string]interface{}{
			"trade_id":  trade.ID,
			"symbol":    trade.Symbol,
			"direction": string(trade.Direction),
			"date":      trade.Date,
			"net_pl":    trade.NetPL,
		},
	})
}

// SendRiskAlert sends a fired risk alert.
func (mn *MultiNotifier) SendRiskAlert(ctx context.Context, alert risk.Alert) error {
	var title string
	switch alert.Kind {
	case risk.DailyLossAlert:
		title = "Daily loss limit reached"
	case risk.DrawdownAlert:
		title = "Drawdown limit reached"
	default:
		title = "Risk limit reached"
	}

	return mn.Send(ctx, Notification{
		Type:  NotificationAlert,
		Title: title,
		Message: fmt.Sprintf("%s (current %s, limit %s)",
			alert.Message,
			utils.FormatCurrency(alert.Current, mn.currency),
			utils.FormatCurrency(-alert.Limit, mn.currency)),
		Data: map[string]interface{}{
			"kind":    string(alert.Kind),
			"date":    alert.Date,
			"current": alert.Current,
			"limit":   alert.Limit,
		},
	})
}

// SendTargetCompleted celebrates a monthly target reached for the first time.
func (mn *MultiNotifier) SendTargetCompleted(ctx context.Context, target models.MonthlyTarget) error {
	return mn.Send(ctx, Notification{
		Type:  NotificationTarget,
		Title: fmt.Sprintf("Target completed for %s", target.Key()),
		Message: fmt.Sprintf("P&L %s of %s, %d of %d trades, win rate %.1f%% of %.1f%%",
			utils.FormatCurrency(target.CurrentPnL, mn.currency),
			utils.FormatCurrency(target.PnLTarget, mn.currency),
			target.CurrentTrades, target.TradesTarget,
			target.CurrentWinRate, target.WinRateTarget),
		Data: map[string]interface{}{
			"month":       target.Key(),
			"pnl":         target.CurrentPnL,
			"trades":      target.CurrentTrades,
			"win_rate":    target.CurrentWinRate,
			"target_id":   target.ID,
			"pnl_target":  target.PnLTarget,
			"trade_count": target.TradesTarget,
		},
	})
}

// NoOpNotifier is a notifier that does nothing.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send does nothing.
func (n *NoOpNotifier) Send(ctx context.Context, notif Notification) error {
	return nil
}

// SendTradeRecorded does nothing.
func (n *NoOpNotifier) SendTradeRecorded(ctx context.Context, trade models.TradeRecord) error {
	return nil
}

// SendRiskAlert does nothing.
func (n *NoOpNotifier) SendRiskAlert(ctx context.Context, alert risk.Alert) error {
	return nil
}

// SendTargetCompleted does nothing.
func (n *NoOpNotifier) SendTargetCompleted(ctx context.Context, target models.MonthlyTarget) error {
	return nil
}
