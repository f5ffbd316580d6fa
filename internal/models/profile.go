package models

import (
	"strings"
	"time"

	"trade-journal/internal/errors"
)

// RiskProfile is a saved set of position-size calculator inputs.
type RiskProfile struct {
	ID             string    `json:"id" yaml:"id"`
	OwnerID        string    `json:"owner_id" yaml:"owner_id"`
	Name           string    `json:"name" yaml:"name"`
	AccountBalance float64   `json:"account_balance" yaml:"account_balance"`
	RiskPercent    float64   `json:"risk_percent" yaml:"risk_percent"`
	RewardRatio    float64   `json:"reward_ratio" yaml:"reward_ratio"`
	TradesPerDay   int       `json:"trades_per_day" yaml:"trades_per_day"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the profile fields.
func (p RiskProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewValidationError("name", p.Name, "profile name is required")
	}
	if !isFinite(p.AccountBalance) || p.AccountBalance <= 0 {
		return errors.NewValidationError("account_balance", p.AccountBalance, "must be positive")
	}
	if !isFinite(p.RiskPercent) || p.RiskPercent <= 0 || p.RiskPercent > 100 {
		return errors.NewValidationError("risk_percent", p.RiskPercent, "must be in (0, 100]")
	}
	if !isFinite(p.RewardRatio) || p.RewardRatio < 0 {
		return errors.NewValidationError("reward_ratio", p.RewardRatio, "must be non-negative")
	}
	if p.TradesPerDay < 0 {
		return errors.NewValidationError("trades_per_day", p.TradesPerDay, "must be non-negative")
	}
	return nil
}
