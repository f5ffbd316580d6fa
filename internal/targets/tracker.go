// Package targets tracks progress against monthly trading goals.
package targets

import (
	"context"
	"fmt"
	"time"

	"trade-journal/internal/analytics"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/pkg/utils"
)

// State is the lifecycle position of a monthly target.
type State string

const (
	NoTarget   State = "no_target"
	InProgress State = "in_progress"
	Completed  State = "completed"
)

// StateOf reports the display state of a target. A nil target has no state yet.
// State follows IsCompleted, so a target whose progress has dropped back below
// its goals reads InProgress even when CompletedAt is still set.
func StateOf(t *models.MonthlyTarget) State {
	switch {
	case t == nil:
		return NoTarget
	case t.IsCompleted:
		return Completed
	default:
		return InProgress
	}
}

// Repository is the persistence the tracker needs.
type Repository interface {
	GetTarget(ctx context.Context, ownerID string, year int, month time.Month) (*models.MonthlyTarget, error)
	CreateTarget(ctx context.Context, target models.MonthlyTarget) (string, error)
	UpdateTarget(ctx context.Context, id string, update models.TargetUpdate) error
}

// NewTarget builds a fresh target with zero progress.
func NewTarget(ownerID string, year int, month time.Month, goals models.TargetGoals) (models.MonthlyTarget, error) {
	if ownerID == "" {
		return models.MonthlyTarget{}, errors.NewValidationError("owner_id", ownerID, "owner is required")
	}
	if year < 1 || year > 9999 {
		return models.MonthlyTarget{}, errors.NewValidationError("year", year, "must be a four digit year")
	}
	if month < time.January || month > time.December {
		return models.MonthlyTarget{}, errors.NewValidationError("month", int(month), "must be between 1 and 12")
	}
	if err := goals.Validate(); err != nil {
		return models.MonthlyTarget{}, err
	}

	return models.MonthlyTarget{
		OwnerID:       ownerID,
		Year:          year,
		Month:         month,
		PnLTarget:     goals.PnLTarget,
		TradesTarget:  goals.TradesTarget,
		WinRateTarget: goals.WinRateTarget,
	}, nil
}

// MonthTrades returns the trades dated inside the target's month.
func MonthTrades(target models.MonthlyTarget, trades []models.TradeRecord) []models.TradeRecord {
	key := target.Key()
	out := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if len(t.Date) >= len(key) && t.Date[:len(key)] == key {
			out = append(out, t)
		}
	}
	return out
}

// Recompute re-derives the progress fields of target from trades.
//
// Progress is never carried over from the stored target. IsCompleted is
// true only while all three goals are met together. CompletedAt is set to now
// the first time that happens and is left untouched afterwards, including when
// a later recompute finds the goals no longer met.
func Recompute(target models.MonthlyTarget, trades []models.TradeRecord, now time.Time) models.MonthlyTarget {
	stats := analytics.Summarize(MonthTrades(target, trades))

	target.CurrentPnL = stats.TotalNetPL
	target.CurrentTrades = stats.TotalTrades
	target.CurrentWinRate = stats.WinRate
	target.IsCompleted = target.CurrentPnL >= target.PnLTarget &&
		target.CurrentTrades >= target.TradesTarget &&
		target.CurrentWinRate >= target.WinRateTarget

	if target.IsCompleted && target.CompletedAt == nil {
		at := now
		target.CompletedAt = &at
	}
	return target
}

// TargetStatus is the result of evaluating the current month.
type TargetStatus struct {
	Target        models.MonthlyTarget `json:"target" yaml:"target"`
	State         State                `json:"state" yaml:"state"`
	Created       bool                 `json:"created" yaml:"created"`
	JustCompleted bool                 `json:"just_completed" yaml:"just_completed"`
}

// Tracker evaluates monthly targets against a repository.
type Tracker struct {
	repo Repository
}

// NewTracker creates a tracker backed by repo.
func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo}
}

// Current returns the target for the month containing now, creating it with
// defaults when the owner has none, and persists freshly computed progress.
func (t *Tracker) Current(ctx context.Context, ownerID string, now time.Time, trades []models.TradeRecord, defaults models.TargetGoals) (TargetStatus, error) {
	var status TargetStatus

	target, err := t.repo.GetTarget(ctx, ownerID, now.Year(), now.Month())
	switch {
	case errors.Is(err, errors.ErrTargetNotFound):
		fresh, err := NewTarget(ownerID, now.Year(), now.Month(), defaults)
		if err != nil {
			return status, fmt.Errorf("creating default target: %w", err)
		}
		id, err := t.repo.CreateTarget(ctx, fresh)
		if err != nil {
			return status, fmt.Errorf("creating target for %s: %w", fresh.Key(), err)
		}
		fresh.ID = id
		target = &fresh
		status.Created = true
	case err != nil:
		return status, fmt.Errorf("loading target: %w", err)
	}

	updated := Recompute(*target, trades, now)
	if err := t.repo.UpdateTarget(ctx, updated.ID, updated.Update()); err != nil {
		return status, fmt.Errorf("saving target progress: %w", err)
	}

	status.Target = updated
	status.State = StateOf(&updated)
	status.JustCompleted = target.CompletedAt == nil && updated.CompletedAt != nil
	return status, nil
}

// Get returns the stored target for a month without recomputing it.
func (t *Tracker) Get(ctx context.Context, ownerID string, year int, month time.Month) (*models.MonthlyTarget, error) {
	target, err := t.repo.GetTarget(ctx, ownerID, year, month)
	if err != nil {
		return nil, fmt.Errorf("loading target %s: %w", utils.MonthKey(year, month), err)
	}
	return target, nil
}

// Set creates the target for a month or replaces its goals. Progress and
// completion are kept until the next recompute.
func (t *Tracker) Set(ctx context.Context, ownerID string, year int, month time.Month, goals models.TargetGoals) (models.MonthlyTarget, error) {
	fresh, err := NewTarget(ownerID, year, month, goals)
	if err != nil {
		return models.MonthlyTarget{}, err
	}

	existing, err := t.repo.GetTarget(ctx, ownerID, year, month)
	switch {
	case errors.Is(err, errors.ErrTargetNotFound):
		id, err := t.repo.CreateTarget(ctx, fresh)
		if err != nil {
			return models.MonthlyTarget{}, fmt.Errorf("creating target %s: %w", fresh.Key(), err)
		}
		fresh.ID = id
		return fresh, nil
	case err != nil:
		return models.MonthlyTarget{}, fmt.Errorf("loading target: %w", err)
	}

	updated := *existing
	updated.PnLTarget = goals.PnLTarget
	updated.TradesTarget = goals.TradesTarget
	updated.WinRateTarget = goals.WinRateTarget
	if err := t.repo.UpdateTarget(ctx, updated.ID, updated.Update()); err != nil {
		return models.MonthlyTarget{}, fmt.Errorf("updating target %s: %w", updated.Key(), err)
	}
	return updated, nil
}

// Reset clears a recorded completion so the next recompute can complete the
// target again. It is the only operation that clears CompletedAt.
func (t *Tracker) Reset(ctx context.Context, ownerID string, year int, month time.Month) (models.MonthlyTarget, error) {
	existing, err := t.Get(ctx, ownerID, year, month)
	if err != nil {
		return models.MonthlyTarget{}, err
	}

	updated := *existing
	updated.IsCompleted = false
	updated.CompletedAt = nil
	if err := t.repo.UpdateTarget(ctx, updated.ID, updated.Update()); err != nil {
		return models.MonthlyTarget{}, fmt.Errorf("resetting target %s: %w", updated.Key(), err)
	}
	return updated, nil
}
