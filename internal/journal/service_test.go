package journal

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"trade-journal/internal/analytics"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/notify"
	"trade-journal/internal/risk"
	"trade-journal/internal/store"
	"trade-journal/internal/targets"
	"trade-journal/pkg/utils"
)

type recordingNotifier struct {
	trades    []models.TradeRecord
	alerts    []risk.Alert
	completed []models.MonthlyTarget
	err       error
}

func (r *recordingNotifier) Send(context.Context, notify.Notification) error { return r.err }

func (r *recordingNotifier) SendTradeRecorded(_ context.Context, t models.TradeRecord) error {
	r.trades = append(r.trades, t)
	return r.err
}

func (r *recordingNotifier) SendRiskAlert(_ context.Context, a risk.Alert) error {
	r.alerts = append(r.alerts, a)
	return r.err
}

func (r *recordingNotifier) SendTargetCompleted(_ context.Context, t models.MonthlyTarget) error {
	r.completed = append(r.completed, t)
	return r.err
}

type fixture struct {
	svc      *Service
	store    *store.SQLiteStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T, today string, mutate func(*Options)) *fixture {
	t.Helper()
	ds, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { ds.Close() })

	clock, err := utils.NewFixedClock(today)
	if err != nil {
		t.Fatal(err)
	}
	n := &recordingNotifier{}
	opts := Options{
		Owner:          "alice",
		TargetDefaults: models.TargetGoals{PnLTarget: 100, TradesTarget: 2, WinRateTarget: 50},
		Thresholds:     risk.Thresholds{DailyLossLimit: 500, DrawdownLimit: 1000},
		Clock:          clock,
		Notifier:       n,
		Logger:         zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	svc, err := NewService(ds, opts)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, store: ds, notifier: n}
}

func (f *fixture) record(t *testing.T, date, symbol string, gross float64) models.TradeRecord {
	t.Helper()
	rec, err := f.svc.RecordTrade(context.Background(), models.TradeInput{
		Date:      date,
		Symbol:    symbol,
		Direction: "LONG",
		GrossPL:   gross,
	})
	if err != nil {
		t.Fatalf("RecordTrade: %v", err)
	}
	return rec
}

func TestNewServiceRequiresOwner(t *testing.T) {
	ds, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "j.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	if _, err := NewService(ds, Options{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordTrade(t *testing.T) {
	f := newFixture(t, "2024-03-10", func(o *Options) { o.DefaultAccount = "main" })
	ctx := context.Background()

	rec, err := f.svc.RecordTrade(ctx, models.TradeInput{
		OwnerID:   "mallory",
		Date:      "2024-03-10",
		Symbol:    " gbpusd ",
		Direction: "short",
		GrossPL:   150,
		Fees:      5,
	})
	if err != nil {
		t.Fatal(err)
	}

	if rec.ID == "" || rec.OwnerID != "alice" || rec.AccountID != "main" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Symbol != "GBPUSD" || rec.Direction != models.Short || rec.NetPL != 145 {
		t.Errorf("record = %+v", rec)
	}
	if len(f.notifier.trades) != 1 {
		t.Errorf("trade notifications = %d, want 1", len(f.notifier.trades))
	}

	if _, err := f.svc.RecordTrade(ctx, models.TradeInput{Date: "2024-02-30", Symbol: "X", Direction: "LONG"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("invalid date should fail validation, got %v", err)
	}
}

func TestNotificationFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	f.notifier.err = errors.ErrNotifyFailed

	if _, err := f.svc.RecordTrade(context.Background(), models.TradeInput{
		Date: "2024-03-10", Symbol: "EURUSD", Direction: "LONG", GrossPL: 10,
	}); err != nil {
		t.Errorf("RecordTrade should succeed, got %v", err)
	}
}

func TestEditAndDeleteTrade(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()
	rec := f.record(t, "2024-03-10", "EURUSD", 100)

	update := rec.Update()
	update.GrossPL = -40
	update.Fees = 2
	edited, err := f.svc.EditTrade(ctx, rec.ID, update)
	if err != nil {
		t.Fatal(err)
	}
	if edited.NetPL != -42 {
		t.Errorf("edited NetPL = %v, want -42", edited.NetPL)
	}

	if err := f.svc.DeleteTrade(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteTrade(ctx, rec.ID); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("second delete: expected ErrTradeNotFound, got %v", err)
	}
	if _, err := f.svc.EditTrade(ctx, "missing", update); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("edit missing: expected ErrTradeNotFound, got %v", err)
	}
}

func TestOtherOwnersTradesAreHidden(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()

	foreign, err := models.NewTradeRecord(models.TradeInput{OwnerID: "bob", Date: "2024-03-10", Symbol: "X", Direction: "LONG", GrossPL: 5})
	if err != nil {
		t.Fatal(err)
	}
	id, err := f.store.CreateTrade(ctx, foreign)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.GetTrade(ctx, id); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("expected ErrTradeNotFound, got %v", err)
	}
	if err := f.svc.DeleteTrade(ctx, id); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("expected ErrTradeNotFound, got %v", err)
	}
	trades, err := f.svc.ListTrades(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Errorf("ListTrades returned %d foreign trades", len(trades))
	}
}

func TestSummaryAndHistory(t *testing.T) {
	f := newFixture(t, "2024-01-31", nil)
	ctx := context.Background()
	for _, gross := range []float64{100, -50, 200, -30, 80} {
		f.record(t, "2024-01-15", "EURUSD", gross)
	}

	sum, err := f.svc.Summary(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalTrades != 5 || sum.WinningTrades != 3 || sum.LosingTrades != 2 || sum.TotalNetPL != 300 {
		t.Errorf("summary = %+v", sum)
	}

	report, err := f.svc.History(ctx, analytics.Monthly, analytics.DateRange{Start: "2024-01-01", End: "2024-01-31"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if report.MaxDrawdown != 50 {
		t.Errorf("MaxDrawdown = %v, want 50", report.MaxDrawdown)
	}
	if len(report.Periods) != 1 || report.Periods[0].Key != "2024-01" {
		t.Errorf("periods = %+v", report.Periods)
	}

	yearly, err := f.svc.History(ctx, analytics.Timeframe("Yearly"), analytics.DateRange{Start: "2024-01-01", End: "2024-12-31"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if yearly.Timeframe != analytics.Yearly || len(yearly.Periods) != 1 || len(yearly.MonthlyBreakdown) != 12 {
		t.Errorf("yearly report = %s, %d periods, %d months", yearly.Timeframe, len(yearly.Periods), len(yearly.MonthlyBreakdown))
	}

	if _, err := f.svc.History(ctx, analytics.Monthly, analytics.DateRange{Start: "2024-02-01", End: "2024-01-01"}, ""); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("reversed range: expected ErrInvalidInput, got %v", err)
	}
}

func TestCurrentTargetNotifiesOnce(t *testing.T) {
	f := newFixture(t, "2024-03-20", nil)
	ctx := context.Background()

	status, err := f.svc.CurrentTarget(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Created || status.State != targets.InProgress {
		t.Errorf("first status = %+v", status)
	}

	f.record(t, "2024-03-05", "EURUSD", 80)
	f.record(t, "2024-03-06", "EURUSD", 40)

	status, err = f.svc.CurrentTarget(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !status.JustCompleted || status.State != targets.Completed {
		t.Errorf("expected completion, got %+v", status)
	}

	if _, err := f.svc.CurrentTarget(ctx); err != nil {
		t.Fatal(err)
	}
	if len(f.notifier.completed) != 1 {
		t.Errorf("completion notifications = %d, want 1", len(f.notifier.completed))
	}

	reset, err := f.svc.ResetTarget(ctx, 2024, time.March)
	if err != nil {
		t.Fatal(err)
	}
	if reset.CompletedAt != nil || reset.IsCompleted {
		t.Errorf("reset target = %+v", reset)
	}
	if _, err := f.svc.CurrentTarget(ctx); err != nil {
		t.Fatal(err)
	}
	if len(f.notifier.completed) != 2 {
		t.Errorf("completion after reset should notify again, got %d", len(f.notifier.completed))
	}
}

func TestSetTarget(t *testing.T) {
	f := newFixture(t, "2024-03-20", nil)
	ctx := context.Background()

	goals := models.TargetGoals{PnLTarget: 5000, TradesTarget: 40, WinRateTarget: 55}
	if _, err := f.svc.SetTarget(ctx, 2024, time.April, goals); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Target(ctx, 2024, time.April)
	if err != nil {
		t.Fatal(err)
	}
	if got.Goals() != goals {
		t.Errorf("goals = %+v, want %+v", got.Goals(), goals)
	}

	if _, err := f.svc.Target(ctx, 2024, time.May); !errors.Is(err, errors.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
	if _, err := f.svc.SetTarget(ctx, 2024, time.April, models.TargetGoals{WinRateTarget: 120}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRiskStatusAlertsOncePerDay(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()

	f.record(t, "2024-03-10", "EURUSD", -300)
	eval, err := f.svc.RiskStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if eval.DailyLossBreached || len(eval.Alerts) != 0 {
		t.Errorf("no alert expected yet: %+v", eval)
	}

	f.record(t, "2024-03-10", "EURUSD", -250)
	eval, err = f.svc.RiskStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !eval.DailyLossBreached || len(eval.Alerts) != 1 || eval.Alerts[0].Kind != risk.DailyLossAlert {
		t.Fatalf("expected daily loss alert, got %+v", eval)
	}

	// The persisted state suppresses the repeat.
	eval, err = f.svc.RiskStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !eval.DailyLossBreached || len(eval.Alerts) != 0 {
		t.Errorf("alert should not repeat: %+v", eval)
	}
	if len(f.notifier.alerts) != 1 {
		t.Errorf("alert notifications = %d, want 1", len(f.notifier.alerts))
	}

	if err := f.svc.ResetAlerts(ctx); err != nil {
		t.Fatal(err)
	}
	eval, err = f.svc.RiskStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(eval.Alerts) != 1 {
		t.Errorf("reset should re-arm the alert, got %+v", eval.Alerts)
	}
}

func TestProfilesAndSizing(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()

	saved, err := f.svc.SaveProfile(ctx, models.RiskProfile{
		Name:           " swing ",
		AccountBalance: 10000,
		RiskPercent:    2,
		RewardRatio:    2,
		TradesPerDay:   3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if saved.Name != "swing" || saved.ID == "" {
		t.Errorf("saved = %+v", saved)
	}

	proj, err := f.svc.SizeWithProfile(ctx, "swing", 50, 10)
	if err != nil {
		t.Fatal(err)
	}
	if proj.Position.RiskAmount != 200 || proj.Position.PositionSize != 0.4 || proj.DailyRiskAmount != 600 {
		t.Errorf("projection = %+v", proj)
	}
	if proj.Position.PotentialProfit == nil || *proj.Position.PotentialProfit != 400 {
		t.Errorf("potential profit = %v", proj.Position.PotentialProfit)
	}

	list, err := f.svc.Profiles(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("Profiles = %v, %v", list, err)
	}
	if err := f.svc.DeleteProfile(ctx, "swing"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Profile(ctx, "swing"); !errors.Is(err, errors.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	src := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()
	src.record(t, "2024-03-01", "EURUSD", 120)
	src.record(t, "2024-03-02", "GBPUSD", -45.5)

	var buf bytes.Buffer
	n, err := src.svc.ExportCSV(ctx, &buf, "")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("exported %d trades, want 2", n)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	for _, col := range []string{"date", "symbol", "direction", "gross_pl", "net_pl"} {
		if !strings.Contains(header, col) {
			t.Errorf("header %q missing %q", header, col)
		}
	}

	dst := newFixture(t, "2024-03-10", func(o *Options) { o.ImportBatchSize = 1 })
	imported, err := dst.svc.ImportCSV(ctx, &buf, "export.csv")
	if err != nil {
		t.Fatal(err)
	}
	if imported != 2 {
		t.Errorf("imported %d, want 2", imported)
	}

	sum, err := dst.svc.Summary(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalNetPL != 74.5 {
		t.Errorf("TotalNetPL = %v, want 74.5", sum.TotalNetPL)
	}
}

func TestImportCSVRejectsBadRowsAtomically(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()

	input := "date,symbol,direction,gross_pl,fees\n" +
		"2024-03-01,EURUSD,LONG,100,2\n" +
		"2024-03-02,GBPUSD,SIDEWAYS,50,1\n"

	n, err := f.svc.ImportCSV(ctx, strings.NewReader(input), "bad.csv")
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if n != 0 || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("n = %d, err = %v", n, err)
	}

	trades, err := f.svc.ListTrades(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Errorf("nothing should be stored, found %d trades", len(trades))
	}
}

func TestImportCSVOptionalColumns(t *testing.T) {
	f := newFixture(t, "2024-03-10", nil)
	ctx := context.Background()

	input := "date,symbol,direction,gross_pl,fees,notes\n" +
		"2024-03-01,eurusd,buy,100,,breakout\n"

	n, err := f.svc.ImportCSV(ctx, strings.NewReader(input), "min.csv")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("imported %d, want 1", n)
	}

	trades, err := f.svc.ListTrades(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if trades[0].Symbol != "EURUSD" || trades[0].Fees != 0 || trades[0].Notes != "breakout" {
		t.Errorf("imported = %+v", trades[0])
	}

	missing := "date,symbol,direction,gross_pl\n2024-03-01,EURUSD,LONG,\n"
	if _, err := f.svc.ImportCSV(ctx, strings.NewReader(missing), "missing.csv"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("blank gross_pl: expected ErrInvalidInput, got %v", err)
	}
}
