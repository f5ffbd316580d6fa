package models

import (
	"time"

	"trade-journal/internal/errors"
	"trade-journal/pkg/utils"
)

// MonthlyTarget is a user goal for one calendar month.
//
// The Current* fields are snapshots recomputed from the month's trades.
// CompletedAt records the first time all goals were met together and is only
// cleared by an explicit reset.
type MonthlyTarget struct {
	ID             string     `json:"id" yaml:"id"`
	OwnerID        string     `json:"owner_id" yaml:"owner_id"`
	Year           int        `json:"year" yaml:"year"`
	Month          time.Month `json:"month" yaml:"month"`
	PnLTarget      float64    `json:"pnl_target" yaml:"pnl_target"`
	TradesTarget   int        `json:"trades_target" yaml:"trades_target"`
	WinRateTarget  float64    `json:"win_rate_target" yaml:"win_rate_target"`
	CurrentPnL     float64    `json:"current_pnl" yaml:"current_pnl"`
	CurrentTrades  int        `json:"current_trades" yaml:"current_trades"`
	CurrentWinRate float64    `json:"current_win_rate" yaml:"current_win_rate"`
	IsCompleted    bool       `json:"is_completed" yaml:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" yaml:"updated_at"`
}

// TargetGoals are the user-editable goal fields.
type TargetGoals struct {
	PnLTarget     float64 `json:"pnl_target" yaml:"pnl_target" mapstructure:"default_pnl"`
	TradesTarget  int     `json:"trades_target" yaml:"trades_target" mapstructure:"default_trades"`
	WinRateTarget float64 `json:"win_rate_target" yaml:"win_rate_target" mapstructure:"default_win_rate"`
}

// TargetUpdate replaces the goal and progress fields of a target.
type TargetUpdate struct {
	Goals          TargetGoals
	CurrentPnL     float64
	CurrentTrades  int
	CurrentWinRate float64
	IsCompleted    bool
	CompletedAt    *time.Time
}

// Validate checks goal ranges.
func (g TargetGoals) Validate() error {
	if !isFinite(g.PnLTarget) {
		return errors.NewValidationError("pnl_target", g.PnLTarget, "must be a finite amount")
	}
	if g.TradesTarget < 0 {
		return errors.NewValidationError("trades_target", g.TradesTarget, "must be non-negative")
	}
	if !isFinite(g.WinRateTarget) || g.WinRateTarget < 0 || g.WinRateTarget > 100 {
		return errors.NewValidationError("win_rate_target", g.WinRateTarget, "must be between 0 and 100")
	}
	return nil
}

// Goals returns the target's goal fields.
func (t MonthlyTarget) Goals() TargetGoals {
	return TargetGoals{
		PnLTarget:     t.PnLTarget,
		TradesTarget:  t.TradesTarget,
		WinRateTarget: t.WinRateTarget,
	}
}

// Update returns the target's editable fields.
func (t MonthlyTarget) Update() TargetUpdate {
	return TargetUpdate{
		Goals:          t.Goals(),
		CurrentPnL:     t.CurrentPnL,
		CurrentTrades:  t.CurrentTrades,
		CurrentWinRate: t.CurrentWinRate,
		IsCompleted:    t.IsCompleted,
		CompletedAt:    t.CompletedAt,
	}
}

// Key returns the target's YYYY-MM month key.
func (t MonthlyTarget) Key() string {
	return utils.MonthKey(t.Year, t.Month)
}
