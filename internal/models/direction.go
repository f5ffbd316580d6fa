package models

import (
	"strings"

	"trade-journal/internal/errors"
)

// Direction is the entry polarity of a trade.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ParseDirection maps entry-form vocabulary onto a Direction.
// "buy" and "long" become Long, "sell" and "short" become Short.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "long":
		return Long, nil
	case "sell", "short":
		return Short, nil
	default:
		return "", errors.NewValidationError("direction", s, "must be one of buy, sell, long, short")
	}
}

// Valid reports whether d is Long or Short.
func (d Direction) Valid() bool {
	return d == Long || d == Short
}

// Sign is +1 for Long and -1 for Short.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// UnmarshalCSV lets CSV imports use either vocabulary.
func (d *Direction) UnmarshalCSV(s string) error {
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalCSV writes the canonical form.
func (d Direction) MarshalCSV() (string, error) {
	return string(d), nil
}
