// Package analytics turns trade records into derived performance metrics.
//
// Every function here is a pure transformation over an in-memory slice: no I/O,
// no logging, no mutation of the input. Degenerate inputs such as an empty slice
// produce zero values, never errors.
package analytics

import (
	"trade-journal/internal/models"
)

// StatsSummary aggregates a set of trades.
type StatsSummary struct {
	TotalTrades     int     `json:"total_trades" yaml:"total_trades"`
	TotalNetPL      float64 `json:"total_net_pl" yaml:"total_net_pl"`
	TotalGrossPL    float64 `json:"total_gross_pl" yaml:"total_gross_pl"`
	TotalFees       float64 `json:"total_fees" yaml:"total_fees"`
	WinningTrades   int     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades    int     `json:"losing_trades" yaml:"losing_trades"`
	BreakEvenTrades int     `json:"break_even_trades" yaml:"break_even_trades"`
	WinRate         float64 `json:"win_rate" yaml:"win_rate"`
	BestTrade       float64 `json:"best_trade" yaml:"best_trade"`
	WorstTrade      float64 `json:"worst_trade" yaml:"worst_trade"`
	AverageNetPL    float64 `json:"average_net_pl" yaml:"average_net_pl"`
	GrossProfit     float64 `json:"gross_profit" yaml:"gross_profit"`
	GrossLoss       float64 `json:"gross_loss" yaml:"gross_loss"`
	AverageWin      float64 `json:"average_win" yaml:"average_win"`
	AverageLoss     float64 `json:"average_loss" yaml:"average_loss"`
	ProfitFactor    float64 `json:"profit_factor" yaml:"profit_factor"`
}

// Outcome classifies a single trade by its net result.
type Outcome int

const (
	BreakEven Outcome = iota
	Win
	Loss
)

// Classify returns Win for net > 0, Loss for net < 0 and BreakEven otherwise.
func Classify(netPL float64) Outcome {
	switch {
	case netPL > 0:
		return Win
	case netPL < 0:
		return Loss
	default:
		return BreakEven
	}
}

// Summarize computes the summary statistics of trades.
// Break-even trades count toward TotalTrades but neither wins nor losses.
func Summarize(trades []models.TradeRecord) StatsSummary {
	var s StatsSummary
	s.TotalTrades = len(trades)
	if s.TotalTrades == 0 {
		return s
	}

	s.BestTrade = trades[0].NetPL
	s.WorstTrade = trades[0].NetPL

	for _, t := range trades {
		s.TotalNetPL += t.NetPL
		s.TotalGrossPL += t.GrossPL
		s.TotalFees += t.Fees

		switch Classify(t.NetPL) {
		case Win:
			s.WinningTrades++
			s.GrossProfit += t.NetPL
		case Loss:
			s.LosingTrades++
			s.GrossLoss += t.NetPL
		default:
			s.BreakEvenTrades++
		}

		if t.NetPL > s.BestTrade {
			s.BestTrade = t.NetPL
		}
		if t.NetPL < s.WorstTrade {
			s.WorstTrade = t.NetPL
		}
	}

	s.WinRate = WinRate(s.WinningTrades, s.TotalTrades)
	s.AverageNetPL = s.TotalNetPL / float64(s.TotalTrades)
	if s.WinningTrades > 0 {
		s.AverageWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AverageLoss = s.GrossLoss / float64(s.LosingTrades)
	}
	if s.GrossLoss != 0 {
		s.ProfitFactor = s.GrossProfit / -s.GrossLoss
	}

	return s
}

// WinRate returns wins as a percentage of total, or 0 when total is 0.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// SumNetPL adds up the net P&L of trades.
func SumNetPL(trades []models.TradeRecord) float64 {
	var total float64
	for _, t := range trades {
		total += t.NetPL
	}
	return total
}
