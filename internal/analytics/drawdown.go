package analytics

import (
	"sort"

	"trade-journal/internal/models"
)

// SortChronological returns a copy of trades ordered by date ascending.
// The sort is stable, so same-day trades keep their input order.
func SortChronological(trades []models.TradeRecord) []models.TradeRecord {
	sorted := make([]models.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// SortRecentFirst returns a copy of trades ordered by date descending.
// Same-day trades are ordered last-inserted first.
func SortRecentFirst(trades []models.TradeRecord) []models.TradeRecord {
	sorted := SortChronological(trades)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}

// MaxDrawdown returns the largest peak-to-trough decline of cumulative net P&L.
// trades must already be in chronological order. The peak is seeded with the
// equity after the first trade, so the result depends on trade order.
func MaxDrawdown(trades []models.TradeRecord) float64 {
	var running, peak, maxDD float64
	for i, t := range trades {
		running += t.NetPL
		if i == 0 || running > peak {
			peak = running
		}
		if dd := peak - running; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// EquityPoint is the cumulative net P&L after one trade.
type EquityPoint struct {
	Date     string  `json:"date" yaml:"date"`
	Equity   float64 `json:"equity" yaml:"equity"`
	Drawdown float64 `json:"drawdown" yaml:"drawdown"`
}

// EquityCurve returns the running equity and drawdown after each trade.
// trades must already be in chronological order.
func EquityCurve(trades []models.TradeRecord) []EquityPoint {
	curve := make([]EquityPoint, 0, len(trades))
	var running, peak float64
	for i, t := range trades {
		running += t.NetPL
		if i == 0 || running > peak {
			peak = running
		}
		curve = append(curve, EquityPoint{Date: t.Date, Equity: running, Drawdown: peak - running})
	}
	return curve
}
