package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/pkg/utils"
)

// Timeframe selects the bucket width for time-series grouping.
type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	Yearly  Timeframe = "yearly"
)

// ParseTimeframe validates a timeframe name.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Daily, Weekly, Monthly, Yearly:
		return tf, nil
	default:
		return "", errors.NewValidationError("timeframe", s, "must be daily, weekly, monthly or yearly")
	}
}

// PeriodStats is the summary of one time bucket.
type PeriodStats struct {
	Key   string       `json:"key" yaml:"key"`
	Stats StatsSummary `json:"stats" yaml:"stats"`
}

// BucketKey returns the bucket a date falls into for tf.
// Keys are YYYY-MM-DD, YYYY-Www (ISO week), YYYY-MM and YYYY respectively,
// all of which sort chronologically as strings.
func BucketKey(date string, tf Timeframe) (string, error) {
	t, err := utils.ParseDate(date)
	if err != nil {
		return "", err
	}
	switch tf {
	case Daily:
		return utils.FormatDate(t), nil
	case Weekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), nil
	case Monthly:
		return utils.MonthKey(t.Year(), t.Month()), nil
	case Yearly:
		return fmt.Sprintf("%04d", t.Year()), nil
	default:
		return "", errors.NewValidationError("timeframe", tf, "unknown timeframe")
	}
}

// GroupBy partitions trades into buckets and summarizes each one.
// Only buckets that contain trades are returned, in ascending key order.
// Trades with malformed dates are skipped.
func GroupBy(trades []models.TradeRecord, tf Timeframe) []PeriodStats {
	buckets := partition(trades, tf)

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	periods := make([]PeriodStats, 0, len(keys))
	for _, k := range keys {
		periods = append(periods, PeriodStats{Key: k, Stats: Summarize(buckets[k])})
	}
	return periods
}

// MonthsOfYear returns exactly twelve monthly buckets for year, January first.
// Months without trades carry zero-valued stats.
func MonthsOfYear(trades []models.TradeRecord, year int) []PeriodStats {
	keys := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		keys = append(keys, utils.MonthKey(year, m))
	}
	return fixedWidth(partition(trades, Monthly), keys)
}

// LastNMonths returns n monthly buckets ending with the month containing today,
// oldest first. Months without trades carry zero-valued stats.
func LastNMonths(trades []models.TradeRecord, today string, n int) ([]PeriodStats, error) {
	if n <= 0 {
		return nil, errors.NewValidationError("months", n, "must be positive")
	}
	t, err := utils.ParseDate(today)
	if err != nil {
		return nil, errors.NewValidationError("today", today, "must be a YYYY-MM-DD date")
	}

	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, -(n - 1 - i), 0)
		keys[i] = utils.MonthKey(m.Year(), m.Month())
	}
	return fixedWidth(partition(trades, Monthly), keys), nil
}

// DaysInRange returns one daily bucket per calendar date in [start, end].
func DaysInRange(trades []models.TradeRecord, r DateRange) ([]PeriodStats, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	start, _ := utils.ParseDate(r.Start)
	end, _ := utils.ParseDate(r.End)

	var keys []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, utils.FormatDate(d))
	}
	return fixedWidth(partition(trades, Daily), keys), nil
}

// Consistency is the percentage of populated periods that closed with a positive net.
func Consistency(periods []PeriodStats) float64 {
	var active, positive int
	for _, p := range periods {
		if p.Stats.TotalTrades == 0 {
			continue
		}
		active++
		if p.Stats.TotalNetPL > 0 {
			positive++
		}
	}
	return WinRate(positive, active)
}

func partition(trades []models.TradeRecord, tf Timeframe) map[string][]models.TradeRecord {
	buckets := make(map[string][]models.TradeRecord)
	for _, t := range trades {
		key, err := BucketKey(t.Date, tf)
		if err != nil {
			continue
		}
		buckets[key] = append(buckets[key], t)
	}
	return buckets
}

func fixedWidth(buckets map[string][]models.TradeRecord, keys []string) []PeriodStats {
	periods := make([]PeriodStats, len(keys))
	for i, k := range keys {
		periods[i] = PeriodStats{Key: k, Stats: Summarize(buckets[k])}
	}
	return periods
}
