package risk

import (
	"fmt"
	"math"

	"trade-journal/internal/analytics"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// DailySnapshot is the same-day view of the journal.
type DailySnapshot struct {
	Date             string               `json:"date" yaml:"date"`
	TodaysTrades     []models.TradeRecord `json:"todays_trades" yaml:"todays_trades"`
	CurrentDayPnL    float64              `json:"current_day_pnl" yaml:"current_day_pnl"`
	CurrentDayTrades int                  `json:"current_day_trades" yaml:"current_day_trades"`
	WinStreak        int                  `json:"win_streak" yaml:"win_streak"`
	TotalNetPL       float64              `json:"total_net_pl" yaml:"total_net_pl"`
}

// TakeSnapshot derives today's aggregates from the full trade set.
func TakeSnapshot(trades []models.TradeRecord, today string) DailySnapshot {
	snap := DailySnapshot{Date: today}
	for _, t := range trades {
		snap.TotalNetPL += t.NetPL
		if t.Date == today {
			snap.TodaysTrades = append(snap.TodaysTrades, t)
			snap.CurrentDayPnL += t.NetPL
		}
	}
	snap.CurrentDayTrades = len(snap.TodaysTrades)
	snap.WinStreak = analytics.CurrentWinStreak(trades)
	return snap
}

// Thresholds are loss limits expressed as positive amounts. A zero limit
// disables its check.
type Thresholds struct {
	DailyLossLimit float64 `json:"daily_loss_limit" yaml:"daily_loss_limit" mapstructure:"daily_loss_limit"`
	DrawdownLimit  float64 `json:"drawdown_limit" yaml:"drawdown_limit" mapstructure:"drawdown_limit"`
}

// Validate rejects negative or non-finite limits.
func (th Thresholds) Validate() error {
	if math.IsNaN(th.DailyLossLimit) || math.IsInf(th.DailyLossLimit, 0) || th.DailyLossLimit < 0 {
		return errors.NewValidationError("daily_loss_limit", th.DailyLossLimit, "must be a non-negative amount")
	}
	if math.IsNaN(th.DrawdownLimit) || math.IsInf(th.DrawdownLimit, 0) || th.DrawdownLimit < 0 {
		return errors.NewValidationError("drawdown_limit", th.DrawdownLimit, "must be a non-negative amount")
	}
	return nil
}

// AlertState records which alerts have already fired. Callers keep it
// between evaluations; the zero value is a fresh session.
type AlertState struct {
	LastDailyLossAlert string `json:"last_daily_loss_alert" yaml:"last_daily_loss_alert"`
	DrawdownAlertShown bool   `json:"drawdown_alert_shown" yaml:"drawdown_alert_shown"`
}

// AlertKind names a risk rule.
type AlertKind string

const (
	DailyLossAlert AlertKind = "daily_loss_limit"
	DrawdownAlert  AlertKind = "drawdown_limit"
)

// Alert is one fired risk signal.
type Alert struct {
	Kind    AlertKind `json:"kind" yaml:"kind"`
	Date    string    `json:"date" yaml:"date"`
	Current float64   `json:"current" yaml:"current"`
	Limit   float64   `json:"limit" yaml:"limit"`
	Message string    `json:"message" yaml:"message"`
}

// Err returns the alert as a RiskError.
func (a Alert) Err() error {
	return errors.NewRiskError(string(a.Kind), a.Current, -a.Limit, a.Message)
}

// Evaluation is the outcome of one monitor pass.
// The Breached flags describe the current level; Alerts holds only the
// signals that fired on this pass.
type Evaluation struct {
	Snapshot          DailySnapshot `json:"snapshot" yaml:"snapshot"`
	Thresholds        Thresholds    `json:"thresholds" yaml:"thresholds"`
	DailyLossBreached bool          `json:"daily_loss_breached" yaml:"daily_loss_breached"`
	DrawdownBreached  bool          `json:"drawdown_breached" yaml:"drawdown_breached"`
	Alerts            []Alert       `json:"alerts,omitempty" yaml:"alerts,omitempty"`
}

// Evaluate checks today's figures against th and returns the alerts that
// fire given state, together with the state to carry into the next call.
//
// The daily loss alert fires at most once per calendar day. The drawdown
// alert fires at most once per state, so a new session starts from AlertState{}.
func Evaluate(trades []models.TradeRecord, today string, th Thresholds, state AlertState) (Evaluation, AlertState) {
	snap := TakeSnapshot(trades, today)
	eval := Evaluation{Snapshot: snap, Thresholds: th}

	if th.DailyLossLimit > 0 && snap.CurrentDayPnL <= -th.DailyLossLimit {
		eval.DailyLossBreached = true
		if state.LastDailyLossAlert != today {
			eval.Alerts = append(eval.Alerts, Alert{
				Kind:    DailyLossAlert,
				Date:    today,
				Current: snap.CurrentDayPnL,
				Limit:   th.DailyLossLimit,
				Message: fmt.Sprintf("today's P&L %.2f reached the daily loss limit of -%.2f", snap.CurrentDayPnL, th.DailyLossLimit),
			})
			state.LastDailyLossAlert = today
		}
	}

	if th.DrawdownLimit > 0 && snap.TotalNetPL <= -th.DrawdownLimit {
		eval.DrawdownBreached = true
		if !state.DrawdownAlertShown {
			eval.Alerts = append(eval.Alerts, Alert{
				Kind:    DrawdownAlert,
				Date:    today,
				Current: snap.TotalNetPL,
				Limit:   th.DrawdownLimit,
				Message: fmt.Sprintf("account net P&L %.2f reached the drawdown limit of -%.2f", snap.TotalNetPL, th.DrawdownLimit),
			})
			state.DrawdownAlertShown = true
		}
	}

	return eval, state
}
