package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/risk"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal_test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustTrade(t *testing.T, owner, date, symbol string, gross, fees float64) models.TradeRecord {
	t.Helper()
	rec, err := models.NewTradeRecord(models.TradeInput{
		OwnerID:   owner,
		Date:      date,
		Symbol:    symbol,
		Direction: "buy",
		GrossPL:   gross,
		Fees:      fees,
	})
	if err != nil {
		t.Fatalf("NewTradeRecord: %v", err)
	}
	return rec
}

func TestSQLiteStore_TradeLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateTrade(ctx, mustTrade(t, "alice", "2024-04-02", "eurusd", 120, 4))
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected an assigned id")
	}

	got, err := store.GetTrade(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Symbol != "EURUSD" || got.NetPL != 116 || got.Direction != models.Long || got.CreatedAt.IsZero() {
		t.Errorf("stored trade = %+v", got)
	}

	update := got.Update()
	update.GrossPL = -30
	update.Fees = 5
	update.Direction = models.Short
	if err := store.UpdateTrade(ctx, id, update); err != nil {
		t.Fatal(err)
	}

	got, err = store.GetTrade(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.NetPL != -35 || got.Direction != models.Short {
		t.Errorf("updated trade = %+v", got)
	}

	if err := store.DeleteTrade(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetTrade(ctx, id); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("GetTrade after delete: %v", err)
	}
	if err := store.DeleteTrade(ctx, id); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("second delete: %v", err)
	}
	if err := store.UpdateTrade(ctx, "missing", update); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("update missing: %v", err)
	}
}

func TestSQLiteStore_UpdateRejectsInvalidFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateTrade(ctx, mustTrade(t, "alice", "2024-04-02", "ES", 10, 1))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetTrade(ctx, id)
	update := got.Update()
	update.Fees = -1

	if err := store.UpdateTrade(ctx, id, update); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSQLiteStore_ListTradesOrderingAndScope(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	recs := []models.TradeRecord{
		mustTrade(t, "alice", "2024-04-03", "B", 1, 0),
		mustTrade(t, "alice", "2024-04-01", "A", 2, 0),
		mustTrade(t, "alice", "2024-04-03", "C", 3, 0),
		mustTrade(t, "bob", "2024-04-02", "Z", 4, 0),
	}
	recs[2].AccountID = "swing"
	if err := store.CreateTrades(ctx, recs); err != nil {
		t.Fatal(err)
	}

	trades, err := store.ListTrades(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "B", "C"}
	if len(trades) != len(want) {
		t.Fatalf("len = %d, want %d", len(trades), len(want))
	}
	for i, sym := range want {
		if trades[i].Symbol != sym {
			t.Errorf("trades[%d] = %s, want %s", i, trades[i].Symbol, sym)
		}
	}

	filtered, err := store.ListTradesFiltered(ctx, TradeFilter{OwnerID: "alice", AccountID: "swing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Symbol != "C" {
		t.Errorf("account filter = %+v", filtered)
	}

	ranged, err := store.ListTradesFiltered(ctx, TradeFilter{OwnerID: "alice", StartDate: "2024-04-02", EndDate: "2024-04-03", Symbol: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranged) != 1 || ranged[0].Symbol != "B" {
		t.Errorf("range filter = %+v", ranged)
	}

	empty, err := store.ListTrades(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Errorf("unknown owner = %v, %v", empty, err)
	}
}

func TestSQLiteStore_Targets(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.GetTarget(ctx, "alice", 2024, time.May); !errors.Is(err, errors.ErrTargetNotFound) {
		t.Fatalf("missing target: %v", err)
	}

	id, err := store.CreateTarget(ctx, models.MonthlyTarget{
		OwnerID: "alice", Year: 2024, Month: time.May, PnLTarget: 1000, TradesTarget: 20, WinRateTarget: 55,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.CreateTarget(ctx, models.MonthlyTarget{OwnerID: "alice", Year: 2024, Month: time.May}); err == nil {
		t.Error("duplicate month should fail")
	}

	completedAt := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)
	err = store.UpdateTarget(ctx, id, models.TargetUpdate{
		Goals:          models.TargetGoals{PnLTarget: 1000, TradesTarget: 20, WinRateTarget: 55},
		CurrentPnL:     1200,
		CurrentTrades:  22,
		CurrentWinRate: 59,
		IsCompleted:    true,
		CompletedAt:    &completedAt,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.GetTarget(ctx, "alice", 2024, time.May)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsCompleted || got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) || got.CurrentTrades != 22 || got.Month != time.May {
		t.Errorf("target = %+v", got)
	}

	if err := store.UpdateTarget(ctx, "missing", got.Update()); !errors.Is(err, errors.ErrTargetNotFound) {
		t.Errorf("update missing target: %v", err)
	}

	list, err := store.ListTargets(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Errorf("ListTargets = %v, %v", list, err)
	}
}

func TestSQLiteStore_Profiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := models.RiskProfile{OwnerID: "alice", Name: "scalp", AccountBalance: 5000, RiskPercent: 0.5, RewardRatio: 1.5, TradesPerDay: 6}
	id, err := store.SaveProfile(ctx, p)
	if err != nil {
		t.Fatal(err)
	}

	p.RiskPercent = 1
	again, err := store.SaveProfile(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("resave changed id: %s -> %s", id, again)
	}

	got, err := store.GetProfile(ctx, "alice", "scalp")
	if err != nil || got.RiskPercent != 1 {
		t.Errorf("GetProfile = %+v, %v", got, err)
	}

	if _, err := store.SaveProfile(ctx, models.RiskProfile{OwnerID: "alice", Name: "bad"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("invalid profile: %v", err)
	}

	list, err := store.ListProfiles(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Errorf("ListProfiles = %v, %v", list, err)
	}

	if err := store.DeleteProfile(ctx, "alice", "scalp"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetProfile(ctx, "alice", "scalp"); !errors.Is(err, errors.ErrProfileNotFound) {
		t.Errorf("after delete: %v", err)
	}
	if err := store.DeleteProfile(ctx, "alice", "scalp"); !errors.Is(err, errors.ErrProfileNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestSQLiteStore_AlertState(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "alerts.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	st, err := store.GetAlertState(ctx, "alice")
	if err != nil || st != (risk.AlertState{}) {
		t.Fatalf("fresh state = %+v, %v", st, err)
	}

	want := risk.AlertState{LastDailyLossAlert: "2024-05-01", DrawdownAlertShown: true}
	if err := store.SaveAlertState(ctx, "alice", want); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.GetAlertState(ctx, "alice")
	if err != nil || got != want {
		t.Errorf("persisted state = %+v, %v", got, err)
	}
}

func TestRepositoryErrorClassification(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetTrade(ctx, "nope")
	if errors.Is(err, errors.ErrDatabaseError) {
		t.Error("not-found should not be classified as a database error")
	}

	store.Close()
	_, err = store.ListTrades(ctx, "alice")
	if !errors.Is(err, errors.ErrDatabaseError) {
		t.Errorf("closed database should surface ErrDatabaseError, got %v", err)
	}
}
