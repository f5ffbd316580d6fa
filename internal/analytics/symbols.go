package analytics

import (
	"sort"

	"trade-journal/internal/models"
)

// SymbolPerformance is the contribution of one instrument.
type SymbolPerformance struct {
	Symbol     string  `json:"symbol" yaml:"symbol"`
	TradeCount int     `json:"trade_count" yaml:"trade_count"`
	NetPL      float64 `json:"net_pl" yaml:"net_pl"`
	WinRate    float64 `json:"win_rate" yaml:"win_rate"`
	wins       int
}

// RankSymbols groups trades by symbol and orders the groups by net P&L, highest
// first. Symbols with equal net P&L keep the order in which they first appear.
func RankSymbols(trades []models.TradeRecord) []SymbolPerformance {
	index := make(map[string]int)
	var ranked []SymbolPerformance

	for _, t := range trades {
		i, ok := index[t.Symbol]
		if !ok {
			i = len(ranked)
			index[t.Symbol] = i
			ranked = append(ranked, SymbolPerformance{Symbol: t.Symbol})
		}
		sp := &ranked[i]
		sp.TradeCount++
		sp.NetPL += t.NetPL
		if Classify(t.NetPL) == Win {
			sp.wins++
		}
	}

	for i := range ranked {
		ranked[i].WinRate = WinRate(ranked[i].wins, ranked[i].TradeCount)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetPL > ranked[j].NetPL
	})
	return ranked
}

// TopSymbols returns at most n entries of RankSymbols. n <= 0 returns all.
func TopSymbols(trades []models.TradeRecord, n int) []SymbolPerformance {
	ranked := RankSymbols(trades)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
