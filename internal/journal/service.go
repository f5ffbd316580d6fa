// Package journal ties the analytics core to persistence, notifications and
// the clock. It is the layer the CLI talks to.
package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trade-journal/internal/analytics"
	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/notify"
	"trade-journal/internal/risk"
	"trade-journal/internal/store"
	"trade-journal/internal/targets"
	"trade-journal/pkg/utils"
)

// Options configures a Service.
type Options struct {
	Owner           string
	DefaultAccount  string
	TargetDefaults  models.TargetGoals
	Thresholds      risk.Thresholds
	ImportBatchSize int
	Clock           utils.Clock
	Notifier        notify.Notifier
	Logger          zerolog.Logger
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Owner:          cfg.Journal.Owner,
		DefaultAccount: cfg.Journal.DefaultAccount,
		TargetDefaults: cfg.Targets,
		Thresholds:     cfg.Risk.Thresholds(),
	}
}

// Service is the journal application service for one owner.
type Service struct {
	trades   store.TradeRepository
	targets  store.TargetRepository
	profiles store.ProfileRepository
	alerts   store.AlertStateRepository
	tracker  *targets.Tracker

	owner          string
	defaultAccount string
	defaults       models.TargetGoals
	thresholds     risk.Thresholds
	batchSize      int

	clock    utils.Clock
	notifier notify.Notifier
	logger   zerolog.Logger
}

// NewService creates a service over ds. Zero-valued options fall back to the
// system clock and a no-op notifier.
func NewService(ds store.DataStore, opts Options) (*Service, error) {
	if strings.TrimSpace(opts.Owner) == "" {
		return nil, errors.NewValidationError("owner", opts.Owner, "owner is required")
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if err := opts.TargetDefaults.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		trades:         ds,
		targets:        ds,
		profiles:       ds,
		alerts:         ds,
		tracker:        targets.NewTracker(ds),
		owner:          opts.Owner,
		defaultAccount: opts.DefaultAccount,
		defaults:       opts.TargetDefaults,
		thresholds:     opts.Thresholds,
		batchSize:      opts.ImportBatchSize,
		clock:          opts.Clock,
		notifier:       opts.Notifier,
		logger:         logging.WithOwner(opts.Logger, opts.Owner),
	}
	if s.clock == nil {
		s.clock = utils.SystemClock{}
	}
	if s.notifier == nil {
		s.notifier = notify.NewNoOpNotifier()
	}
	return s, nil
}

// Owner returns the journal owner the service is scoped to.
func (s *Service) Owner() string {
	return s.owner
}

// Today returns the service clock's current date.
func (s *Service) Today() string {
	return s.clock.Today()
}

// ============================================================================
// Trades
// ============================================================================

// RecordTrade validates and stores a new trade for the service owner.
func (s *Service) RecordTrade(ctx context.Context, in models.TradeInput) (models.TradeRecord, error) {
	in.OwnerID = s.owner
	if strings.TrimSpace(in.AccountID) == "" {
		in.AccountID = s.defaultAccount
	}

	rec, err := models.NewTradeRecord(in)
	if err != nil {
		return models.TradeRecord{}, err
	}

	id, err := s.trades.CreateTrade(ctx, rec)
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("recording trade: %w", err)
	}

	stored, err := s.trades.GetTrade(ctx, id)
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("reloading trade %s: %w", id, err)
	}

	logging.LogTradeRecorded(s.logger, stored.ID, stored.Symbol, string(stored.Direction), stored.NetPL)
	s.notify(ctx, "trade_recorded", func(ctx context.Context) error {
		return s.notifier.SendTradeRecorded(ctx, *stored)
	})
	return *stored, nil
}

// GetTrade returns one of the owner's trades.
func (s *Service) GetTrade(ctx context.Context, id string) (models.TradeRecord, error) {
	rec, err := s.trades.GetTrade(ctx, id)
	if err != nil {
		return models.TradeRecord{}, err
	}
	// Another owner's trade is reported as missing.
	if rec.OwnerID != s.owner {
		return models.TradeRecord{}, errors.NewRepositoryError("get_trade", fmt.Errorf("%w: %s", errors.ErrTradeNotFound, id))
	}
	return *rec, nil
}

// EditTrade replaces every editable field of a trade.
func (s *Service) EditTrade(ctx context.Context, id string, update models.TradeUpdate) (models.TradeRecord, error) {
	if _, err := s.GetTrade(ctx, id); err != nil {
		return models.TradeRecord{}, err
	}
	if err := s.trades.UpdateTrade(ctx, id, update); err != nil {
		return models.TradeRecord{}, fmt.Errorf("editing trade %s: %w", id, err)
	}

	rec, err := s.GetTrade(ctx, id)
	if err != nil {
		return models.TradeRecord{}, err
	}
	logger := logging.WithSymbol(s.logger, rec.Symbol)
	logger.Info().Str("trade_id", id).Msg("Trade edited")
	return rec, nil
}

// DeleteTrade removes a trade.
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	if _, err := s.GetTrade(ctx, id); err != nil {
		return err
	}
	if err := s.trades.DeleteTrade(ctx, id); err != nil {
		return fmt.Errorf("deleting trade %s: %w", id, err)
	}

	s.logger.Info().Str("trade_id", id).Msg("Trade deleted")
	return nil
}

// ListTrades returns the owner's trades in chronological order, restricted
// to account when it is non-empty.
func (s *Service) ListTrades(ctx context.Context, account string) ([]models.TradeRecord, error) {
	trades, err := s.trades.ListTrades(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	return models.FilterAccount(trades, account), nil
}

// FindTrades queries the owner's trades with a filter.
func (s *Service) FindTrades(ctx context.Context, filter store.TradeFilter) ([]models.TradeRecord, error) {
	filter.OwnerID = s.owner
	if filter.StartDate != "" && filter.EndDate != "" {
		if err := (analytics.DateRange{Start: filter.StartDate, End: filter.EndDate}).Validate(); err != nil {
			return nil, err
		}
	}
	trades, err := s.trades.ListTradesFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	return trades, nil
}

// ============================================================================
// Analytics
// ============================================================================

// Summary returns the aggregate statistics of the selected trades.
func (s *Service) Summary(ctx context.Context, account string) (analytics.StatsSummary, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return analytics.StatsSummary{}, err
	}
	return analytics.Summarize(trades), nil
}

// History builds the historical report for a date range.
func (s *Service) History(ctx context.Context, tf analytics.Timeframe, r analytics.DateRange, account string) (analytics.HistoricalReport, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return analytics.HistoricalReport{}, err
	}
	return analytics.BuildHistoricalReport(trades, tf, r)
}

// Symbols ranks symbols by net P&L. n <= 0 returns every symbol.
func (s *Service) Symbols(ctx context.Context, account string, n int) ([]analytics.SymbolPerformance, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return nil, err
	}
	return analytics.TopSymbols(trades, n), nil
}

// Periods groups the selected trades by timeframe.
func (s *Service) Periods(ctx context.Context, tf analytics.Timeframe, account string) ([]analytics.PeriodStats, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return nil, err
	}
	return analytics.GroupBy(trades, tf), nil
}

// RecentMonths returns the last n calendar months ending with the current one.
func (s *Service) RecentMonths(ctx context.Context, n int, account string) ([]analytics.PeriodStats, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return nil, err
	}
	return analytics.LastNMonths(trades, s.clock.Today(), n)
}

// Calendar returns one bucket per calendar date in r, empty days included.
func (s *Service) Calendar(ctx context.Context, r analytics.DateRange, account string) ([]analytics.PeriodStats, error) {
	trades, err := s.ListTrades(ctx, account)
	if err != nil {
		return nil, err
	}
	return analytics.DaysInRange(trades, r)
}

// ============================================================================
// Targets
// ============================================================================

// CurrentTarget evaluates the current month's target, creating it from the
// configured defaults when missing. A first completion is logged and sent to
// the notifier.
func (s *Service) CurrentTarget(ctx context.Context) (targets.TargetStatus, error) {
	trades, err := s.trades.ListTrades(ctx, s.owner)
	if err != nil {
		return targets.TargetStatus{}, fmt.Errorf("listing trades: %w", err)
	}

	status, err := s.tracker.Current(ctx, s.owner, s.clock.Now(), trades, s.defaults)
	if err != nil {
		return targets.TargetStatus{}, err
	}

	if status.JustCompleted {
		t := status.Target
		logging.LogTargetCompleted(s.logger, t.Key(), t.CurrentPnL, t.CurrentTrades, t.CurrentWinRate)
		s.notify(ctx, "target_completed", func(ctx context.Context) error {
			return s.notifier.SendTargetCompleted(ctx, t)
		})
	}
	return status, nil
}

// Target returns the stored target for a month.
func (s *Service) Target(ctx context.Context, year int, month time.Month) (models.MonthlyTarget, error) {
	t, err := s.tracker.Get(ctx, s.owner, year, month)
	if err != nil {
		return models.MonthlyTarget{}, err
	}
	return *t, nil
}

// Targets lists every stored target of the owner.
func (s *Service) Targets(ctx context.Context) ([]models.MonthlyTarget, error) {
	list, err := s.targets.ListTargets(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("listing targets: %w", err)
	}
	return list, nil
}

// SetTarget creates or edits the goals of a month.
func (s *Service) SetTarget(ctx context.Context, year int, month time.Month, goals models.TargetGoals) (models.MonthlyTarget, error) {
	t, err := s.tracker.Set(ctx, s.owner, year, month, goals)
	if err != nil {
		return models.MonthlyTarget{}, err
	}
	s.logger.Info().Str("month", t.Key()).Msg("Target goals set")
	return t, nil
}

// ResetTarget clears a recorded completion.
func (s *Service) ResetTarget(ctx context.Context, year int, month time.Month) (models.MonthlyTarget, error) {
	t, err := s.tracker.Reset(ctx, s.owner, year, month)
	if err != nil {
		return models.MonthlyTarget{}, err
	}
	s.logger.Info().Str("month", t.Key()).Msg("Target completion reset")
	return t, nil
}

// ============================================================================
// Risk
// ============================================================================

// RiskStatus evaluates today's trades against the configured thresholds.
// The alert state is loaded before and saved after the evaluation, so each
// alert reaches the notifier once.
func (s *Service) RiskStatus(ctx context.Context) (risk.Evaluation, error) {
	trades, err := s.trades.ListTrades(ctx, s.owner)
	if err != nil {
		return risk.Evaluation{}, fmt.Errorf("listing trades: %w", err)
	}

	state, err := s.alerts.GetAlertState(ctx, s.owner)
	if err != nil {
		return risk.Evaluation{}, fmt.Errorf("loading alert state: %w", err)
	}

	eval, next := risk.Evaluate(trades, s.clock.Today(), s.thresholds, state)

	if next != state {
		if err := s.alerts.SaveAlertState(ctx, s.owner, next); err != nil {
			return risk.Evaluation{}, fmt.Errorf("saving alert state: %w", err)
		}
	}

	for _, a := range eval.Alerts {
		alert := a
		logging.LogRiskAlert(s.logger, string(alert.Kind), alert.Date, alert.Current, alert.Limit)
		s.notify(ctx, string(alert.Kind), func(ctx context.Context) error {
			return s.notifier.SendRiskAlert(ctx, alert)
		})
	}
	return eval, nil
}

// ResetAlerts re-arms every risk alert of the owner.
func (s *Service) ResetAlerts(ctx context.Context) error {
	if err := s.alerts.SaveAlertState(ctx, s.owner, risk.AlertState{}); err != nil {
		return fmt.Errorf("resetting alert state: %w", err)
	}
	return nil
}

// Thresholds returns the configured risk limits.
func (s *Service) Thresholds() risk.Thresholds {
	return s.thresholds
}

// ============================================================================
// Position sizing and profiles
// ============================================================================

// Size runs the position size calculator.
func (s *Service) Size(in risk.PositionInput) (risk.PositionResult, error) {
	return risk.CalculatePositionSize(in)
}

// SizeWithProfile sizes a position from a saved profile.
func (s *Service) SizeWithProfile(ctx context.Context, name string, stopLoss, pipValue float64) (risk.ProfileProjection, error) {
	p, err := s.Profile(ctx, name)
	if err != nil {
		return risk.ProfileProjection{}, err
	}
	return risk.ProjectProfile(p, stopLoss, pipValue)
}

// SaveProfile creates or replaces a named profile.
func (s *Service) SaveProfile(ctx context.Context, p models.RiskProfile) (models.RiskProfile, error) {
	p.OwnerID = s.owner
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return models.RiskProfile{}, err
	}

	id, err := s.profiles.SaveProfile(ctx, p)
	if err != nil {
		return models.RiskProfile{}, fmt.Errorf("saving profile %q: %w", p.Name, err)
	}
	p.ID = id

	s.logger.Info().Str("profile", p.Name).Msg("Risk profile saved")
	return s.Profile(ctx, p.Name)
}

// Profile returns a saved profile by name.
func (s *Service) Profile(ctx context.Context, name string) (models.RiskProfile, error) {
	p, err := s.profiles.GetProfile(ctx, s.owner, strings.TrimSpace(name))
	if err != nil {
		return models.RiskProfile{}, err
	}
	return *p, nil
}

// Profiles lists the owner's saved profiles.
func (s *Service) Profiles(ctx context.Context) ([]models.RiskProfile, error) {
	list, err := s.profiles.ListProfiles(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return list, nil
}

// DeleteProfile removes a saved profile.
func (s *Service) DeleteProfile(ctx context.Context, name string) error {
	if err := s.profiles.DeleteProfile(ctx, s.owner, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	return nil
}

// notify sends through the notifier and logs failures. Notification
// failures never fail the calling operation.
func (s *Service) notify(ctx context.Context, event string, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		s.logger.Warn().Err(err).Str("event", event).Msg("Notification failed")
	}
}
