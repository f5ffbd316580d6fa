// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/risk"
	"trade-journal/pkg/utils"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry utils.RetryConfig
	now   func() time.Time

	mu     sync.RWMutex
	alerts map[string]risk.AlertState
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	retry := utils.DefaultRetryConfig()
	retry.Retryable = isBusy

	store := &SQLiteStore{
		db:     db,
		retry:  retry,
		now:    func() time.Time { return time.Now().UTC() },
		alerts: make(map[string]risk.AlertState),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trade records; net_pl is always gross_pl - fees
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		account_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		gross_pl REAL NOT NULL,
		fees REAL NOT NULL DEFAULT 0,
		net_pl REAL NOT NULL,
		entry_price REAL NOT NULL DEFAULT 0,
		exit_price REAL NOT NULL DEFAULT 0,
		quantity REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	-- Monthly targets, one per owner and month
	CREATE TABLE IF NOT EXISTS monthly_targets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		pnl_target REAL NOT NULL,
		trades_target INTEGER NOT NULL,
		win_rate_target REAL NOT NULL,
		current_pnl REAL NOT NULL DEFAULT 0,
		current_trades INTEGER NOT NULL DEFAULT 0,
		current_win_rate REAL NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(owner_id, year, month)
	);

	-- Saved position sizing profiles
	CREATE TABLE IF NOT EXISTS risk_profiles (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		account_balance REAL NOT NULL,
		risk_percent REAL NOT NULL,
		reward_ratio REAL NOT NULL DEFAULT 0,
		trades_per_day INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(owner_id, name)
	);

	-- Risk alert suppression state per owner
	CREATE TABLE IF NOT EXISTS alert_state (
		owner_id TEXT PRIMARY KEY,
		last_daily_loss_alert TEXT NOT NULL DEFAULT '',
		drawdown_alert_shown INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_trades_owner_date ON trades(owner_id, date);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_targets_owner ON monthly_targets(owner_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isBusy reports SQLite lock contention, the only failure worth retrying.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !stderrors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// write runs fn with the store's retry policy.
func (s *SQLiteStore) write(ctx context.Context, fn func() error) error {
	return utils.Retry(ctx, s.retry, fn)
}

// ============================================================================
// Trades Methods
// ============================================================================

const tradeColumns = "id, owner_id, account_id, date, symbol, direction, gross_pl, fees, net_pl, entry_price, exit_price, quantity, notes, created_at, updated_at"

// ListTrades returns every trade of an owner in chronological order.
// Same-day trades are returned in insertion order.
func (s *SQLiteStore) ListTrades(ctx context.Context, ownerID string) ([]models.TradeRecord, error) {
	return s.ListTradesFiltered(ctx, TradeFilter{OwnerID: ownerID})
}

// ListTradesFiltered retrieves trades matching filter.
func (s *SQLiteStore) ListTradesFiltered(ctx context.Context, filter TradeFilter) ([]models.TradeRecord, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, filter.OwnerID)
	}
	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, models.NormalizeSymbol(filter.Symbol))
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date ASC, created_at ASC, rowid ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewRepositoryError("list_trades", fmt.Errorf("failed to query trades: %w", err))
	}
	defer rows.Close()

	var trades []models.TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, errors.NewRepositoryError("list_trades", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewRepositoryError("list_trades", fmt.Errorf("error iterating trades: %w", err))
	}
	return trades, nil
}

// GetTrade retrieves a single trade.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.TradeRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tradeColumns+" FROM trades WHERE id = ?", id)
	t, err := scanTrade(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewRepositoryError("get_trade", fmt.Errorf("%w: %s", errors.ErrTradeNotFound, id))
	}
	if err != nil {
		return nil, errors.NewRepositoryError("get_trade", err)
	}
	return &t, nil
}

// CreateTrade inserts a trade and returns its new id.
func (s *SQLiteStore) CreateTrade(ctx context.Context, rec models.TradeRecord) (string, error) {
	rec = s.prepareTrade(rec)
	err := s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, insertTrade, tradeArgs(rec)...)
		return err
	})
	if err != nil {
		return "", errors.NewRepositoryError("create_trade", fmt.Errorf("failed to insert trade: %w", err))
	}
	return rec.ID, nil
}

// CreateTrades inserts trades in a single transaction.
func (s *SQLiteStore) CreateTrades(ctx context.Context, recs []models.TradeRecord) error {
	if len(recs) == 0 {
		return nil
	}

	prepared := make([]models.TradeRecord, len(recs))
	for i, rec := range recs {
		prepared[i] = s.prepareTrade(rec)
	}

	err := s.write(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, insertTrade)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range prepared {
			if _, err := stmt.ExecContext(ctx, tradeArgs(rec)...); err != nil {
				return fmt.Errorf("failed to insert trade: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return errors.NewRepositoryError("create_trades", err)
	}
	return nil
}

// UpdateTrade replaces the editable fields of a trade. NetPL is recomputed.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, id string, update models.TradeUpdate) error {
	existing, err := s.GetTrade(ctx, id)
	if err != nil {
		return err
	}

	rec, err := existing.Apply(update)
	if err != nil {
		return err
	}
	rec.UpdatedAt = s.now()

	err = s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			UPDATE trades SET account_id = ?, date = ?, symbol = ?, direction = ?, gross_pl = ?, fees = ?, net_pl = ?,
				entry_price = ?, exit_price = ?, quantity = ?, notes = ?, updated_at = ?
			WHERE id = ?
		`, rec.AccountID, rec.Date, rec.Symbol, string(rec.Direction), rec.GrossPL, rec.Fees, rec.NetPL,
			rec.EntryPrice, rec.ExitPrice, rec.Quantity, rec.Notes, rec.UpdatedAt, id)
		return err
	})
	if err != nil {
		return errors.NewRepositoryError("update_trade", fmt.Errorf("failed to update trade: %w", err))
	}
	return nil
}

// DeleteTrade removes a trade.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	var affected int64
	err := s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return errors.NewRepositoryError("delete_trade", fmt.Errorf("failed to delete trade: %w", err))
	}
	if affected == 0 {
		return errors.NewRepositoryError("delete_trade", fmt.Errorf("%w: %s", errors.ErrTradeNotFound, id))
	}
	return nil
}

const insertTrade = `
	INSERT INTO trades (` + tradeColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (s *SQLiteStore) prepareTrade(rec models.TradeRecord) models.TradeRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := s.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	rec.NetPL = models.NetPL(rec.GrossPL, rec.Fees)
	return rec
}

func tradeArgs(t models.TradeRecord) []interface{} {
	return []interface{}{
		t.ID, t.OwnerID, t.AccountID, t.Date, t.Symbol, string(t.Direction), t.GrossPL, t.Fees, t.NetPL,
		t.EntryPrice, t.ExitPrice, t.Quantity, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row scanner) (models.TradeRecord, error) {
	var t models.TradeRecord
	var direction string
	err := row.Scan(&t.ID, &t.OwnerID, &t.AccountID, &t.Date, &t.Symbol, &direction, &t.GrossPL, &t.Fees, &t.NetPL,
		&t.EntryPrice, &t.ExitPrice, &t.Quantity, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("failed to scan trade: %w", err)
	}
	t.Direction = models.Direction(direction)
	return t, nil
}

// ============================================================================
// Monthly Target Methods
// ============================================================================

const targetColumns = "id, owner_id, year, month, pnl_target, trades_target, win_rate_target, current_pnl, current_trades, current_win_rate, is_completed, completed_at, created_at, updated_at"

// GetTarget retrieves the target for an owner's month.
func (s *SQLiteStore) GetTarget(ctx context.Context, ownerID string, year int, month time.Month) (*models.MonthlyTarget, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+targetColumns+" FROM monthly_targets WHERE owner_id = ? AND year = ? AND month = ?",
		ownerID, year, int(month))
	t, err := scanTarget(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewRepositoryError("get_target",
			fmt.Errorf("%w: %s %s", errors.ErrTargetNotFound, ownerID, utils.MonthKey(year, month)))
	}
	if err != nil {
		return nil, errors.NewRepositoryError("get_target", err)
	}
	return &t, nil
}

// CreateTarget inserts a target and returns its new id.
func (s *SQLiteStore) CreateTarget(ctx context.Context, target models.MonthlyTarget) (string, error) {
	if target.ID == "" {
		target.ID = uuid.NewString()
	}
	now := s.now()
	target.CreatedAt = now
	target.UpdatedAt = now

	err := s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO monthly_targets (`+targetColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, target.ID, target.OwnerID, target.Year, int(target.Month), target.PnLTarget, target.TradesTarget, target.WinRateTarget,
			target.CurrentPnL, target.CurrentTrades, target.CurrentWinRate, boolToInt(target.IsCompleted), nullTime(target.CompletedAt),
			target.CreatedAt, target.UpdatedAt)
		return err
	})
	if err != nil {
		return "", errors.NewRepositoryError("create_target", fmt.Errorf("failed to insert target %s: %w", target.Key(), err))
	}
	return target.ID, nil
}

// UpdateTarget replaces the goal and progress fields of a target.
func (s *SQLiteStore) UpdateTarget(ctx context.Context, id string, u models.TargetUpdate) error {
	var affected int64
	err := s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE monthly_targets SET pnl_target = ?, trades_target = ?, win_rate_target = ?,
				current_pnl = ?, current_trades = ?, current_win_rate = ?, is_completed = ?, completed_at = ?, updated_at = ?
			WHERE id = ?
		`, u.Goals.PnLTarget, u.Goals.TradesTarget, u.Goals.WinRateTarget,
			u.CurrentPnL, u.CurrentTrades, u.CurrentWinRate, boolToInt(u.IsCompleted), nullTime(u.CompletedAt), s.now(), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return errors.NewRepositoryError("update_target", fmt.Errorf("failed to update target: %w", err))
	}
	if affected == 0 {
		return errors.NewRepositoryError("update_target", fmt.Errorf("%w: %s", errors.ErrTargetNotFound, id))
	}
	return nil
}

// ListTargets returns an owner's targets, most recent month first.
func (s *SQLiteStore) ListTargets(ctx context.Context, ownerID string) ([]models.MonthlyTarget, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+targetColumns+" FROM monthly_targets WHERE owner_id = ? ORDER BY year DESC, month DESC", ownerID)
	if err != nil {
		return nil, errors.NewRepositoryError("list_targets", fmt.Errorf("failed to query targets: %w", err))
	}
	defer rows.Close()

	var targets []models.MonthlyTarget
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, errors.NewRepositoryError("list_targets", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewRepositoryError("list_targets", fmt.Errorf("error iterating targets: %w", err))
	}
	return targets, nil
}

func scanTarget(row scanner) (models.MonthlyTarget, error) {
	var t models.MonthlyTarget
	var month, completed int
	var completedAt sql.NullTime
	err := row.Scan(&t.ID, &t.OwnerID, &t.Year, &month, &t.PnLTarget, &t.TradesTarget, &t.WinRateTarget,
		&t.CurrentPnL, &t.CurrentTrades, &t.CurrentWinRate, &completed, &completedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("failed to scan target: %w", err)
	}
	t.Month = time.Month(month)
	t.IsCompleted = completed == 1
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	return t, nil
}

// ============================================================================
// Risk Profile Methods
// ============================================================================

// SaveProfile creates or replaces the owner's profile with the same name and
// returns its id.
func (s *SQLiteStore) SaveProfile(ctx context.Context, p models.RiskProfile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	existing, err := s.GetProfile(ctx, p.OwnerID, p.Name)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, errors.ErrProfileNotFound):
		p.ID = uuid.NewString()
		p.CreatedAt = s.now()
	default:
		return "", err
	}
	p.UpdatedAt = s.now()

	err = s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO risk_profiles (id, owner_id, name, account_balance, risk_percent, reward_ratio, trades_per_day, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.OwnerID, p.Name, p.AccountBalance, p.RiskPercent, p.RewardRatio, p.TradesPerDay, p.CreatedAt, p.UpdatedAt)
		return err
	})
	if err != nil {
		return "", errors.NewRepositoryError("save_profile", fmt.Errorf("failed to save profile %s: %w", p.Name, err))
	}
	return p.ID, nil
}

// GetProfile retrieves a profile by name.
func (s *SQLiteStore) GetProfile(ctx context.Context, ownerID, name string) (*models.RiskProfile, error) {
	var p models.RiskProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, account_balance, risk_percent, reward_ratio, trades_per_day, created_at, updated_at
		FROM risk_profiles WHERE owner_id = ? AND name = ?
	`, ownerID, name).Scan(&p.ID, &p.OwnerID, &p.Name, &p.AccountBalance, &p.RiskPercent, &p.RewardRatio, &p.TradesPerDay, &p.CreatedAt, &p.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewRepositoryError("get_profile", fmt.Errorf("%w: %s", errors.ErrProfileNotFound, name))
	}
	if err != nil {
		return nil, errors.NewRepositoryError("get_profile", fmt.Errorf("failed to scan profile: %w", err))
	}
	return &p, nil
}

// ListProfiles returns an owner's profiles sorted by name.
func (s *SQLiteStore) ListProfiles(ctx context.Context, ownerID string) ([]models.RiskProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, account_balance, risk_percent, reward_ratio, trades_per_day, created_at, updated_at
		FROM risk_profiles WHERE owner_id = ? ORDER BY name ASC
	`, ownerID)
	if err != nil {
		return nil, errors.NewRepositoryError("list_profiles", fmt.Errorf("failed to query profiles: %w", err))
	}
	defer rows.Close()

	var profiles []models.RiskProfile
	for rows.Next() {
		var p models.RiskProfile
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.AccountBalance, &p.RiskPercent, &p.RewardRatio, &p.TradesPerDay, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, errors.NewRepositoryError("list_profiles", fmt.Errorf("failed to scan profile: %w", err))
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewRepositoryError("list_profiles", fmt.Errorf("error iterating profiles: %w", err))
	}
	return profiles, nil
}

// DeleteProfile removes a profile by name.
func (s *SQLiteStore) DeleteProfile(ctx context.Context, ownerID, name string) error {
	var affected int64
	err := s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM risk_profiles WHERE owner_id = ? AND name = ?", ownerID, name)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return errors.NewRepositoryError("delete_profile", fmt.Errorf("failed to delete profile: %w", err))
	}
	if affected == 0 {
		return errors.NewRepositoryError("delete_profile", fmt.Errorf("%w: %s", errors.ErrProfileNotFound, name))
	}
	return nil
}

// ============================================================================
// Alert State Methods
// ============================================================================

// GetAlertState returns the stored alert state, or a fresh state when the
// owner has none.
func (s *SQLiteStore) GetAlertState(ctx context.Context, ownerID string) (risk.AlertState, error) {
	s.mu.RLock()
	if st, ok := s.alerts[ownerID]; ok {
		s.mu.RUnlock()
		return st, nil
	}
	s.mu.RUnlock()

	var st risk.AlertState
	var shown int
	err := s.db.QueryRowContext(ctx, `
		SELECT last_daily_loss_alert, drawdown_alert_shown FROM alert_state WHERE owner_id = ?
	`, ownerID).Scan(&st.LastDailyLossAlert, &shown)
	if stderrors.Is(err, sql.ErrNoRows) {
		return risk.AlertState{}, nil
	}
	if err != nil {
		return risk.AlertState{}, errors.NewRepositoryError("get_alert_state", fmt.Errorf("failed to read alert state: %w", err))
	}
	st.DrawdownAlertShown = shown == 1

	s.mu.Lock()
	s.alerts[ownerID] = st
	s.mu.Unlock()

	return st, nil
}

// SaveAlertState stores the alert state for an owner.
func (s *SQLiteStore) SaveAlertState(ctx context.Context, ownerID string, st risk.AlertState) error {
	err := s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO alert_state (owner_id, last_daily_loss_alert, drawdown_alert_shown, updated_at)
			VALUES (?, ?, ?, ?)
		`, ownerID, st.LastDailyLossAlert, boolToInt(st.DrawdownAlertShown), s.now())
		return err
	})
	if err != nil {
		return errors.NewRepositoryError("save_alert_state", fmt.Errorf("failed to save alert state: %w", err))
	}

	s.mu.Lock()
	s.alerts[ownerID] = st
	s.mu.Unlock()

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
