package journal

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"trade-journal/internal/batch"
	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
)

// csvTrade is one imported CSV row. Numbers are read as text so blank
// optional columns and bad values can be reported per row.
type csvTrade struct {
	Account    string `csv:"account"`
	Date       string `csv:"date"`
	Symbol     string `csv:"symbol"`
	Direction  string `csv:"direction"`
	GrossPL    string `csv:"gross_pl"`
	Fees       string `csv:"fees"`
	EntryPrice string `csv:"entry_price"`
	ExitPrice  string `csv:"exit_price"`
	Quantity   string `csv:"quantity"`
	Notes      string `csv:"notes"`
}

// ImportCSV reads trades from r and stores them for the service owner.
//
// The header row names the columns; date, symbol, direction and gross_pl are
// required. Every row is validated before anything is written, then the
// trades are inserted in batches. It returns the number of trades stored.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, source string) (int, error) {
	start := time.Now()

	var rows []*csvTrade
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		err = fmt.Errorf("%w: reading csv: %v", errors.ErrInvalidInput, err)
		logging.LogImport(s.logger, source, 0, time.Since(start), err)
		return 0, err
	}

	recs := make([]models.TradeRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := s.recordFromRow(row)
		if err != nil {
			// Line 1 is the header.
			err = fmt.Errorf("line %d: %w", i+2, err)
			logging.LogImport(s.logger, source, 0, time.Since(start), err)
			return 0, err
		}
		recs = append(recs, rec)
	}

	processor := batch.NewProcessor(s.batchSize, func(ctx context.Context, items []models.TradeRecord) error {
		return s.trades.CreateTrades(ctx, items)
	})
	for _, rec := range recs {
		if err := processor.Add(ctx, rec); err != nil {
			err = fmt.Errorf("importing trades: %w", err)
			logging.LogImport(s.logger, source, processor.Processed(), time.Since(start), err)
			return processor.Processed(), err
		}
	}
	if err := processor.Flush(ctx); err != nil {
		err = fmt.Errorf("importing trades: %w", err)
		logging.LogImport(s.logger, source, processor.Processed(), time.Since(start), err)
		return processor.Processed(), err
	}

	logging.LogImport(s.logger, source, processor.Processed(), time.Since(start), nil)
	return processor.Processed(), nil
}

func (s *Service) recordFromRow(row *csvTrade) (models.TradeRecord, error) {
	in := models.TradeInput{
		OwnerID:   s.owner,
		AccountID: strings.TrimSpace(row.Account),
		Date:      strings.TrimSpace(row.Date),
		Symbol:    row.Symbol,
		Direction: row.Direction,
		Notes:     row.Notes,
	}
	if in.AccountID == "" {
		in.AccountID = s.defaultAccount
	}

	if strings.TrimSpace(row.GrossPL) == "" {
		return models.TradeRecord{}, errors.NewValidationError("gross_pl", row.GrossPL, "gross_pl is required")
	}

	var err error
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"gross_pl", row.GrossPL, &in.GrossPL},
		{"fees", row.Fees, &in.Fees},
		{"entry_price", row.EntryPrice, &in.EntryPrice},
		{"exit_price", row.ExitPrice, &in.ExitPrice},
		{"quantity", row.Quantity, &in.Quantity},
	}
	for _, f := range fields {
		if *f.dst, err = parseAmount(f.name, f.raw); err != nil {
			return models.TradeRecord{}, err
		}
	}

	return models.NewTradeRecord(in)
}

// parseAmount parses an optional numeric column; blank means zero.
func parseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewValidationError(field, raw, "must be a number")
	}
	return v, nil
}

// ExportCSV writes the owner's trades to w, restricted to account when it
// is non-empty. The output can be read back by ImportCSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, account string) (int, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return 0, err
	}
	if err := gocsv.Marshal(&trades, w); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}
	return len(trades), nil
}
