package analytics

import (
	"testing"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func sampleYear() []models.TradeRecord {
	return []models.TradeRecord{
		trade("2023-12-29", "EURUSD", 500, 0),
		trade("2024-01-02", "EURUSD", 120, 20),
		trade("2024-01-02", "GBPUSD", -40, 10),
		trade("2024-01-03", "EURUSD", -80, 0),
		trade("2024-03-15", "XAUUSD", 300, 0),
		trade("2024-03-15", "XAUUSD", -310, 0),
		trade("2024-06-10", "GBPUSD", 60, 0),
	}
}

func TestDateRange_Validate(t *testing.T) {
	tests := []struct {
		name  string
		r     DateRange
		valid bool
	}{
		{"single day", DateRange{"2024-01-01", "2024-01-01"}, true},
		{"year", DateRange{"2024-01-01", "2024-12-31"}, true},
		{"inverted", DateRange{"2024-02-01", "2024-01-01"}, false},
		{"bad start", DateRange{"2024-1-1", "2024-01-31"}, false},
		{"impossible end", DateRange{"2024-01-01", "2024-02-30"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildHistoricalReport_Monthly(t *testing.T) {
	trades := sampleYear()
	before := append([]models.TradeRecord(nil), trades...)

	report, err := BuildHistoricalReport(trades, Monthly, DateRange{Start: "2024-01-01", End: "2024-03-31"})
	if err != nil {
		t.Fatal(err)
	}

	if report.Stats.TotalTrades != 5 {
		t.Errorf("TotalTrades = %d, want 5", report.Stats.TotalTrades)
	}
	if report.Stats.TotalNetPL != -40 {
		t.Errorf("TotalNetPL = %v, want -40", report.Stats.TotalNetPL)
	}
	if report.Stats.TotalFees != 30 {
		t.Errorf("TotalFees = %v, want 30", report.Stats.TotalFees)
	}
	if report.Stats.BestTrade != 300 || report.Stats.WorstTrade != -310 {
		t.Errorf("best/worst = %v/%v", report.Stats.BestTrade, report.Stats.WorstTrade)
	}
	if report.TradingDays != 3 {
		t.Errorf("TradingDays = %d, want 3", report.TradingDays)
	}
	if report.AverageTradesPerDay != 5.0/3 {
		t.Errorf("AverageTradesPerDay = %v", report.AverageTradesPerDay)
	}
	// 2024-01-02 nets +50, 2024-01-03 -80, 2024-03-15 -10.
	if report.ProfitableDays != 1 {
		t.Errorf("ProfitableDays = %d, want 1", report.ProfitableDays)
	}
	// Equity: 100, 50, -30, 270, -40.
	if report.MaxDrawdown != 310 {
		t.Errorf("MaxDrawdown = %v, want 310", report.MaxDrawdown)
	}
	if len(report.Periods) != 2 || report.Periods[0].Key != "2024-01" || report.Periods[1].Key != "2024-03" {
		t.Errorf("Periods = %+v", report.Periods)
	}
	if report.MonthlyBreakdown != nil {
		t.Error("MonthlyBreakdown should only be set for yearly reports")
	}
	if report.TopSymbols[0].Symbol != "EURUSD" {
		t.Errorf("top symbol = %s", report.TopSymbols[0].Symbol)
	}

	for i := range trades {
		if trades[i] != before[i] {
			t.Fatal("input trades were mutated")
		}
	}
}

func TestBuildHistoricalReport_YearlyBreakdown(t *testing.T) {
	report, err := BuildHistoricalReport(sampleYear(), Yearly, DateRange{Start: "2024-01-01", End: "2024-04-30"})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.MonthlyBreakdown) != 12 {
		t.Fatalf("MonthlyBreakdown len = %d, want 12", len(report.MonthlyBreakdown))
	}
	if report.MonthlyBreakdown[0].Stats.TotalTrades != 3 {
		t.Errorf("January trades = %d", report.MonthlyBreakdown[0].Stats.TotalTrades)
	}
	// June is outside the range, so the breakdown comes from the filtered set.
	if report.MonthlyBreakdown[5].Stats.TotalTrades != 0 {
		t.Errorf("June should be empty, got %d", report.MonthlyBreakdown[5].Stats.TotalTrades)
	}
	if len(report.Periods) != 1 || report.Periods[0].Key != "2024" {
		t.Errorf("Periods = %+v", report.Periods)
	}
}

func TestBuildHistoricalReport_TimeframeCaseInsensitive(t *testing.T) {
	trades := []models.TradeRecord{trade("2024-03-05", "EURUSD", 10, 0)}
	r := DateRange{Start: "2024-01-01", End: "2024-12-31"}

	tests := []struct {
		tf      Timeframe
		want    Timeframe
		key     string
		monthly int
	}{
		{"Yearly", Yearly, "2024", 12},
		{"MONTHLY", Monthly, "2024-03", 0},
		{" Weekly ", Weekly, "2024-W10", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.tf), func(t *testing.T) {
			report, err := BuildHistoricalReport(trades, tt.tf, r)
			if err != nil {
				t.Fatal(err)
			}
			if report.Timeframe != tt.want {
				t.Errorf("Timeframe = %q, want %q", report.Timeframe, tt.want)
			}
			if len(report.Periods) != 1 || report.Periods[0].Key != tt.key {
				t.Errorf("Periods = %+v, want one %s bucket", report.Periods, tt.key)
			}
			if len(report.MonthlyBreakdown) != tt.monthly {
				t.Errorf("MonthlyBreakdown len = %d, want %d", len(report.MonthlyBreakdown), tt.monthly)
			}
		})
	}
}

func TestBuildHistoricalReport_EmptyRange(t *testing.T) {
	report, err := BuildHistoricalReport(sampleYear(), Weekly, DateRange{Start: "2025-01-01", End: "2025-01-31"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Stats != (StatsSummary{}) || report.TradingDays != 0 || report.AverageTradesPerDay != 0 ||
		report.MaxDrawdown != 0 || len(report.TopSymbols) != 0 || report.Consistency != 0 {
		t.Errorf("empty report = %+v", report)
	}
}

func TestBuildHistoricalReport_InvalidInput(t *testing.T) {
	if _, err := BuildHistoricalReport(nil, Monthly, DateRange{Start: "2024-02-01", End: "2024-01-01"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("inverted range: %v", err)
	}
	if _, err := BuildHistoricalReport(nil, Timeframe("hourly"), DateRange{Start: "2024-01-01", End: "2024-01-02"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("bad timeframe: %v", err)
	}
}
