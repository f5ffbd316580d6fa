// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"trade-journal/internal/models"
	"trade-journal/internal/risk"
)

// TradeRepository persists trade records.
type TradeRepository interface {
	ListTrades(ctx context.Context, ownerID string) ([]models.TradeRecord, error)
	ListTradesFiltered(ctx context.Context, filter TradeFilter) ([]models.TradeRecord, error)
	GetTrade(ctx context.Context, id string) (*models.TradeRecord, error)
	CreateTrade(ctx context.Context, rec models.TradeRecord) (string, error)
	CreateTrades(ctx context.Context, recs []models.TradeRecord) error
	UpdateTrade(ctx context.Context, id string, update models.TradeUpdate) error
	DeleteTrade(ctx context.Context, id string) error
}

// TargetRepository persists monthly targets.
type TargetRepository interface {
	GetTarget(ctx context.Context, ownerID string, year int, month time.Month) (*models.MonthlyTarget, error)
	CreateTarget(ctx context.Context, target models.MonthlyTarget) (string, error)
	UpdateTarget(ctx context.Context, id string, update models.TargetUpdate) error
	ListTargets(ctx context.Context, ownerID string) ([]models.MonthlyTarget, error)
}

// ProfileRepository persists named risk profiles.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, profile models.RiskProfile) (string, error)
	GetProfile(ctx context.Context, ownerID, name string) (*models.RiskProfile, error)
	ListProfiles(ctx context.Context, ownerID string) ([]models.RiskProfile, error)
	DeleteProfile(ctx context.Context, ownerID, name string) error
}

// AlertStateRepository persists which risk alerts an owner has already seen.
type AlertStateRepository interface {
	GetAlertState(ctx context.Context, ownerID string) (risk.AlertState, error)
	SaveAlertState(ctx context.Context, ownerID string, state risk.AlertState) error
}

// DataStore is everything the journal persists.
type DataStore interface {
	TradeRepository
	TargetRepository
	ProfileRepository
	AlertStateRepository

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
// Dates are inclusive YYYY-MM-DD bounds; empty fields do not filter.
type TradeFilter struct {
	OwnerID   string
	AccountID string
	Symbol    string
	StartDate string
	EndDate   string
	Limit     int
}
