package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for every trade date.
// Lexicographic order of strings in this layout equals chronological order.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// IsValidDate reports whether s is a well-formed YYYY-MM-DD date.
func IsValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey returns the YYYY-MM key for a year and month.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// YearMonth splits a YYYY-MM-DD date into its year and month.
func YearMonth(date string) (int, time.Month, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// Clock supplies the current date so callers can pin it in tests.
type Clock interface {
	Now() time.Time
	Today() string
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// Today returns the current calendar date.
func (c SystemClock) Today() string {
	return FormatDate(c.Now())
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Time time.Time
}

// NewFixedClock builds a FixedClock at midday UTC of the given date.
func NewFixedClock(date string) (FixedClock, error) {
	t, err := ParseDate(date)
	if err != nil {
		return FixedClock{}, err
	}
	return FixedClock{Time: t.Add(12 * time.Hour)}, nil
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Today returns the fixed instant's date.
func (c FixedClock) Today() string {
	return FormatDate(c.Time)
}
