package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trade-journal/internal/models"
)

// Property: For any valid trade, creating it and reading it back produces the
// same editable fields, and NetPL always equals GrossPL - Fees.
func TestProperty_TradeRoundTripConsistency(t *testing.T) {
	dbPath := "test_trades_property.db"
	defer os.Remove(dbPath)
	defer os.Remove(dbPath + "-wal")
	defer os.Remove(dbPath + "-shm")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"eurusd", "GBPUSD", "xauusd", "NQ", "es", "AAPL", "msft", "BTCUSD"}
	directions := gen.OneConstOf("buy", "sell", "LONG", "short")

	properties.Property("Trade round-trip: create then get preserves fields", prop.ForAll(
		func(symbolIdx int, direction string, dayOffset int, gross, fees, qty float64) bool {
			ctx := context.Background()
			date := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset).Format("2006-01-02")

			rec, err := models.NewTradeRecord(models.TradeInput{
				OwnerID:   fmt.Sprintf("owner-%d", time.Now().UnixNano()%10000),
				Date:      date,
				Symbol:    symbols[symbolIdx%len(symbols)],
				Direction: direction,
				GrossPL:   gross,
				Fees:      fees,
				Quantity:  qty,
				Notes:     "property",
			})
			if err != nil {
				t.Logf("NewTradeRecord: %v", err)
				return false
			}

			id, err := store.CreateTrade(ctx, rec)
			if err != nil {
				t.Logf("CreateTrade: %v", err)
				return false
			}

			got, err := store.GetTrade(ctx, id)
			if err != nil {
				t.Logf("GetTrade: %v", err)
				return false
			}

			if got.Symbol != rec.Symbol || got.Date != rec.Date || got.Direction != rec.Direction || got.OwnerID != rec.OwnerID {
				t.Logf("identity mismatch: %+v vs %+v", got, rec)
				return false
			}
			if math.Abs(got.GrossPL-gross) > 1e-9 || math.Abs(got.Fees-fees) > 1e-9 || math.Abs(got.Quantity-qty) > 1e-9 {
				t.Logf("amount mismatch: %+v", got)
				return false
			}
			return got.NetPL == models.NetPL(got.GrossPL, got.Fees)
		},
		gen.IntRange(0, 100),
		directions,
		gen.IntRange(0, 730),
		gen.Float64Range(-10000, 10000),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 1000),
	))

	properties.TestingRun(t)
}
