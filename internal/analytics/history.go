package analytics

import (
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/pkg/utils"
)

// TopSymbolCount is how many symbols a historical report ranks.
const TopSymbolCount = 10

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Validate checks that both ends are calendar dates and Start <= End.
func (r DateRange) Validate() error {
	if !utils.IsValidDate(r.Start) {
		return errors.NewValidationError("start", r.Start, "must be a YYYY-MM-DD date")
	}
	if !utils.IsValidDate(r.End) {
		return errors.NewValidationError("end", r.End, "must be a YYYY-MM-DD date")
	}
	if r.Start > r.End {
		return errors.NewValidationError("start", r.Start, "must not be after end "+r.End)
	}
	return nil
}

// Contains reports whether date falls inside the range.
// Dates in DateLayout compare chronologically as strings.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// Filter returns the trades dated inside the range, in input order.
func (r DateRange) Filter(trades []models.TradeRecord) []models.TradeRecord {
	out := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// HistoricalReport is the full analytics view of a date range.
type HistoricalReport struct {
	Range               DateRange           `json:"range" yaml:"range"`
	Timeframe           Timeframe           `json:"timeframe" yaml:"timeframe"`
	Stats               StatsSummary        `json:"stats" yaml:"stats"`
	TradingDays         int                 `json:"trading_days" yaml:"trading_days"`
	AverageTradesPerDay float64             `json:"average_trades_per_day" yaml:"average_trades_per_day"`
	ProfitableDays      int                 `json:"profitable_days" yaml:"profitable_days"`
	MaxDrawdown         float64             `json:"max_drawdown" yaml:"max_drawdown"`
	TopSymbols          []SymbolPerformance `json:"top_symbols" yaml:"top_symbols"`
	Periods             []PeriodStats       `json:"periods" yaml:"periods"`
	Consistency         float64             `json:"consistency" yaml:"consistency"`
	LongestWinStreak    int                 `json:"longest_win_streak" yaml:"longest_win_streak"`
	LongestLossStreak   int                 `json:"longest_loss_streak" yaml:"longest_loss_streak"`
	MonthlyBreakdown    []PeriodStats       `json:"monthly_breakdown,omitempty" yaml:"monthly_breakdown,omitempty"`
}

// BuildHistoricalReport filters trades to r and computes the report for tf.
// An invalid range or timeframe is an input error; an empty filtered set is not.
func BuildHistoricalReport(trades []models.TradeRecord, tf Timeframe, r DateRange) (HistoricalReport, error) {
	if err := r.Validate(); err != nil {
		return HistoricalReport{}, err
	}
	tf, err := ParseTimeframe(string(tf))
	if err != nil {
		return HistoricalReport{}, err
	}

	filtered := SortChronological(r.Filter(trades))

	report := HistoricalReport{
		Range:      r,
		Timeframe:  tf,
		Stats:      Summarize(filtered),
		TopSymbols: TopSymbols(filtered, TopSymbolCount),
		Periods:    GroupBy(filtered, tf),
	}

	days := GroupBy(filtered, Daily)
	report.TradingDays = len(days)
	for _, d := range days {
		if d.Stats.TotalNetPL > 0 {
			report.ProfitableDays++
		}
	}
	if report.TradingDays > 0 {
		report.AverageTradesPerDay = float64(report.Stats.TotalTrades) / float64(report.TradingDays)
	}

	report.MaxDrawdown = MaxDrawdown(filtered)
	report.Consistency = Consistency(report.Periods)
	report.LongestWinStreak, report.LongestLossStreak = LongestStreaks(filtered)

	if tf == Yearly {
		year, _, _ := utils.YearMonth(r.Start)
		report.MonthlyBreakdown = MonthsOfYear(filtered, year)
	}

	return report, nil
}
