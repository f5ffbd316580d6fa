package models

import (
	"math"
	"strings"
	"time"

	"trade-journal/internal/errors"
	"trade-journal/pkg/utils"
)

// TradeRecord is one logged trade.
//
// GrossPL is entered directly and is authoritative. EntryPrice, ExitPrice and
// Quantity are informational and are not reconciled against it; NetPL is always
// GrossPL - Fees.
type TradeRecord struct {
	ID         string    `json:"id" yaml:"id" csv:"id"`
	OwnerID    string    `json:"owner_id" yaml:"owner_id" csv:"-"`
	AccountID  string    `json:"account_id,omitempty" yaml:"account_id,omitempty" csv:"account"`
	Date       string    `json:"date" yaml:"date" csv:"date"`
	Symbol     string    `json:"symbol" yaml:"symbol" csv:"symbol"`
	Direction  Direction `json:"direction" yaml:"direction" csv:"direction"`
	GrossPL    float64   `json:"gross_pl" yaml:"gross_pl" csv:"gross_pl"`
	Fees       float64   `json:"fees" yaml:"fees" csv:"fees"`
	NetPL      float64   `json:"net_pl" yaml:"net_pl" csv:"net_pl"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price" csv:"entry_price"`
	ExitPrice  float64   `json:"exit_price" yaml:"exit_price" csv:"exit_price"`
	Quantity   float64   `json:"quantity,omitempty" yaml:"quantity,omitempty" csv:"quantity"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty" csv:"notes"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at" csv:"-"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at" csv:"-"`
}

// TradeInput carries the user-entered fields of a new trade.
type TradeInput struct {
	OwnerID    string
	AccountID  string
	Date       string
	Symbol     string
	Direction  string
	GrossPL    float64
	Fees       float64
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	Notes      string
}

// TradeUpdate replaces every editable field of an existing trade.
type TradeUpdate struct {
	AccountID  string
	Date       string
	Symbol     string
	Direction  Direction
	GrossPL    float64
	Fees       float64
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	Notes      string
}

// NewTradeRecord validates input and builds a record with a derived NetPL.
// The ID is left empty; the repository assigns it on create.
func NewTradeRecord(in TradeInput) (TradeRecord, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return TradeRecord{}, errors.NewValidationError("owner_id", in.OwnerID, "owner is required")
	}

	dir, err := ParseDirection(in.Direction)
	if err != nil {
		return TradeRecord{}, err
	}

	rec := TradeRecord{OwnerID: in.OwnerID}
	return rec.Apply(TradeUpdate{
		AccountID:  in.AccountID,
		Date:       in.Date,
		Symbol:     in.Symbol,
		Direction:  dir,
		GrossPL:    in.GrossPL,
		Fees:       in.Fees,
		EntryPrice: in.EntryPrice,
		ExitPrice:  in.ExitPrice,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
	})
}

// Apply returns a copy of the record with the editable fields replaced.
// NetPL is recomputed from GrossPL and Fees.
func (t TradeRecord) Apply(u TradeUpdate) (TradeRecord, error) {
	if err := u.Validate(); err != nil {
		return TradeRecord{}, err
	}

	t.AccountID = strings.TrimSpace(u.AccountID)
	t.Date = u.Date
	t.Symbol = NormalizeSymbol(u.Symbol)
	t.Direction = u.Direction
	t.GrossPL = u.GrossPL
	t.Fees = u.Fees
	t.EntryPrice = u.EntryPrice
	t.ExitPrice = u.ExitPrice
	t.Quantity = u.Quantity
	t.Notes = u.Notes
	t.NetPL = NetPL(u.GrossPL, u.Fees)
	return t, nil
}

// Validate checks the editable fields.
func (u TradeUpdate) Validate() error {
	if !utils.IsValidDate(u.Date) {
		return errors.NewValidationError("date", u.Date, "must be a YYYY-MM-DD calendar date")
	}
	if NormalizeSymbol(u.Symbol) == "" {
		return errors.NewValidationError("symbol", u.Symbol, "symbol is required")
	}
	if !u.Direction.Valid() {
		return errors.NewValidationError("direction", u.Direction, "must be LONG or SHORT")
	}
	if !isFinite(u.GrossPL) {
		return errors.NewValidationError("gross_pl", u.GrossPL, "must be a finite amount")
	}
	if !isFinite(u.Fees) || u.Fees < 0 {
		return errors.NewValidationError("fees", u.Fees, "must be a non-negative amount")
	}
	if !isFinite(u.EntryPrice) || u.EntryPrice < 0 {
		return errors.NewValidationError("entry_price", u.EntryPrice, "must be non-negative")
	}
	if !isFinite(u.ExitPrice) || u.ExitPrice < 0 {
		return errors.NewValidationError("exit_price", u.ExitPrice, "must be non-negative")
	}
	if !isFinite(u.Quantity) || u.Quantity < 0 {
		return errors.NewValidationError("quantity", u.Quantity, "must be non-negative")
	}
	return nil
}

// Update returns the editable fields of the record.
func (t TradeRecord) Update() TradeUpdate {
	return TradeUpdate{
		AccountID:  t.AccountID,
		Date:       t.Date,
		Symbol:     t.Symbol,
		Direction:  t.Direction,
		GrossPL:    t.GrossPL,
		Fees:       t.Fees,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Quantity:   t.Quantity,
		Notes:      t.Notes,
	}
}

// NetPL is gross profit or loss minus fees.
func NetPL(gross, fees float64) float64 {
	return gross - fees
}

// NormalizeSymbol trims and uppercases an instrument identifier.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// DerivedGrossPL computes gross P&L from prices and quantity.
// It is an entry-time convenience only; stored GrossPL is never re-derived.
func DerivedGrossPL(dir Direction, entry, exit, quantity float64) float64 {
	return (exit - entry) * quantity * dir.Sign()
}

// InAccount reports whether the trade belongs to account.
// An empty account matches every trade.
func (t TradeRecord) InAccount(account string) bool {
	return account == "" || t.AccountID == account
}

// FilterAccount returns the trades that belong to account.
func FilterAccount(trades []TradeRecord, account string) []TradeRecord {
	if account == "" {
		return trades
	}
	out := make([]TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.InAccount(account) {
			out = append(out, t)
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
