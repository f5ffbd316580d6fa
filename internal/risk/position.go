// Package risk provides position sizing and daily risk monitoring.
package risk

import (
	"math"

	"github.com/shopspring/decimal"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// Output precision.
const (
	MoneyPlaces = 2
	LotPlaces   = 4
	RatioPlaces = 2
)

// PositionInput holds the calculator inputs.
// StopLossDistance and TakeProfitDistance are in instrument units (pips,
// points); PipValue is the currency value of one unit per standard lot.
type PositionInput struct {
	AccountBalance     float64  `json:"account_balance" yaml:"account_balance"`
	RiskPercent        float64  `json:"risk_percent" yaml:"risk_percent"`
	StopLossDistance   float64  `json:"stop_loss_distance" yaml:"stop_loss_distance"`
	PipValue           float64  `json:"pip_value" yaml:"pip_value"`
	TakeProfitDistance *float64 `json:"take_profit_distance,omitempty" yaml:"take_profit_distance,omitempty"`
}

// PositionResult is the recommended position. PotentialProfit and
// RiskRewardRatio are nil when no take-profit distance was given.
type PositionResult struct {
	RiskAmount      float64  `json:"risk_amount" yaml:"risk_amount"`
	PositionSize    float64  `json:"position_size" yaml:"position_size"`
	PotentialProfit *float64 `json:"potential_profit,omitempty" yaml:"potential_profit,omitempty"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio,omitempty" yaml:"risk_reward_ratio,omitempty"`
}

// Validate reports the first missing or out-of-range input.
func (in PositionInput) Validate() error {
	if err := positive("account_balance", in.AccountBalance); err != nil {
		return err
	}
	if err := positive("risk_percent", in.RiskPercent); err != nil {
		return err
	}
	if in.RiskPercent > 100 {
		return errors.NewValidationError("risk_percent", in.RiskPercent, "must not exceed 100")
	}
	if err := positive("stop_loss_distance", in.StopLossDistance); err != nil {
		return err
	}
	if err := positive("pip_value", in.PipValue); err != nil {
		return err
	}
	if in.TakeProfitDistance != nil {
		if err := positive("take_profit_distance", *in.TakeProfitDistance); err != nil {
			return err
		}
	}
	return nil
}

// CalculatePositionSize sizes a position so that hitting the stop loses
// RiskPercent of the account.
//
//	riskAmount   = balance * riskPercent / 100
//	positionSize = riskAmount / (stopLoss * pipValue)
//	profit       = takeProfit * pipValue * positionSize
//	ratio        = profit / riskAmount
//
// Intermediate values keep full decimal precision; rounding is applied once
// to each output.
func CalculatePositionSize(in PositionInput) (PositionResult, error) {
	if err := in.Validate(); err != nil {
		return PositionResult{}, err
	}

	balance := decimal.NewFromFloat(in.AccountBalance)
	pct := decimal.NewFromFloat(in.RiskPercent)
	stop := decimal.NewFromFloat(in.StopLossDistance)
	pip := decimal.NewFromFloat(in.PipValue)

	riskAmount := balance.Mul(pct).Div(decimal.NewFromInt(100))
	size := riskAmount.Div(stop.Mul(pip))

	result := PositionResult{
		RiskAmount:   round(riskAmount, MoneyPlaces),
		PositionSize: round(size, LotPlaces),
	}

	if in.TakeProfitDistance != nil {
		profit := decimal.NewFromFloat(*in.TakeProfitDistance).Mul(pip).Mul(size)
		ratio := profit.Div(riskAmount)

		p := round(profit, MoneyPlaces)
		r := round(ratio, RatioPlaces)
		result.PotentialProfit = &p
		result.RiskRewardRatio = &r
	}

	return result, nil
}

// FromProfile builds calculator input from a saved profile. When the profile
// has a reward ratio the take-profit distance is stopLoss * RewardRatio.
func FromProfile(p models.RiskProfile, stopLoss, pipValue float64) PositionInput {
	in := PositionInput{
		AccountBalance:   p.AccountBalance,
		RiskPercent:      p.RiskPercent,
		StopLossDistance: stopLoss,
		PipValue:         pipValue,
	}
	if p.RewardRatio > 0 {
		tp := stopLoss * p.RewardRatio
		in.TakeProfitDistance = &tp
	}
	return in
}

// ProfileProjection extends a sizing result to a full trading day.
type ProfileProjection struct {
	Profile              string         `json:"profile" yaml:"profile"`
	Position             PositionResult `json:"position" yaml:"position"`
	TradesPerDay         int            `json:"trades_per_day" yaml:"trades_per_day"`
	DailyRiskAmount      float64        `json:"daily_risk_amount" yaml:"daily_risk_amount"`
	DailyPotentialProfit *float64       `json:"daily_potential_profit,omitempty" yaml:"daily_potential_profit,omitempty"`
}

// ProjectProfile sizes one trade from the profile and scales the risk and
// reward by the profile's trades per day.
func ProjectProfile(p models.RiskProfile, stopLoss, pipValue float64) (ProfileProjection, error) {
	if err := p.Validate(); err != nil {
		return ProfileProjection{}, err
	}
	pos, err := CalculatePositionSize(FromProfile(p, stopLoss, pipValue))
	if err != nil {
		return ProfileProjection{}, err
	}

	n := decimal.NewFromInt(int64(p.TradesPerDay))
	proj := ProfileProjection{
		Profile:         p.Name,
		Position:        pos,
		TradesPerDay:    p.TradesPerDay,
		DailyRiskAmount: round(decimal.NewFromFloat(pos.RiskAmount).Mul(n), MoneyPlaces),
	}
	if pos.PotentialProfit != nil {
		daily := round(decimal.NewFromFloat(*pos.PotentialProfit).Mul(n), MoneyPlaces)
		proj.DailyPotentialProfit = &daily
	}
	return proj, nil
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewValidationError(field, v, "must be a finite number")
	}
	if v <= 0 {
		return errors.NewValidationError(field, v, "must be greater than zero")
	}
	return nil
}

func round(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}
