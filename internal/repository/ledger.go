package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recycling-rewards-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerTx is the set of reads and writes available inside one atomic
// redemption transaction. Both entities are read and written in the same
// transaction or not at all.
type LedgerTx interface {
	GetRequestForUpdate(ctx context.Context, id string) (*models.RecyclingRequest, error)
	GetUserForUpdate(ctx context.Context, id string) (*models.UserAccount, error)
	SetRequestStatus(ctx context.Context, id string, status models.RequestStatus, updateTime time.Time) error
	AddPoints(ctx context.Context, userID string, points int) error
}

// LedgerRepository runs atomic read-modify-write transactions across the
// request and user stores
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx runs fn inside a serializable transaction. A serialization failure
// during the transaction or at commit maps to models.ErrTxConflict, which
// the ledger service retries from the top.
func (r *LedgerRepository) WithTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", models.ErrLookup)
	}
	defer tx.Rollback(ctx)

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapTxErr(err))
	}
	return nil
}

// mapTxErr classifies serialization_failure and deadlock_detected as
// retryable; everything else is a store failure.
func mapTxErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return models.ErrTxConflict
	}
	return models.ErrLookup
}

type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) GetRequestForUpdate(ctx context.Context, id string) (*models.RecyclingRequest, error) {
	query := `
		SELECT id, user_id, material_type, quantity_kg, photo_url, description,
		       reward_points, status, request_time, update_time
		FROM recycling_requests
		WHERE id = $1
		FOR UPDATE
	`
	req, err := scanRequest(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recycling request %q: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read request in transaction: %w", mapTxErr(err))
	}
	return req, nil
}

func (t *ledgerTx) GetUserForUpdate(ctx context.Context, id string) (*models.UserAccount, error) {
	query := `
		SELECT id, display_name, photo_url, points_balance, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`
	var user models.UserAccount
	err := t.tx.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.DisplayName, &user.PhotoURL, &user.PointsBalance, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read user in transaction: %w", mapTxErr(err))
	}
	return &user, nil
}

func (t *ledgerTx) SetRequestStatus(ctx context.Context, id string, status models.RequestStatus, updateTime time.Time) error {
	query := `UPDATE recycling_requests SET status = $1, update_time = $2 WHERE id = $3`
	result, err := t.tx.Exec(ctx, query, string(status), updateTime, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", mapTxErr(err))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("recycling request %q: %w", id, models.ErrNotFound)
	}
	return nil
}

func (t *ledgerTx) AddPoints(ctx context.Context, userID string, points int) error {
	query := `UPDATE users SET points_balance = points_balance + $1 WHERE id = $2`
	result, err := t.tx.Exec(ctx, query, points, userID)
	if err != nil {
		return fmt.Errorf("failed to credit points: %w", mapTxErr(err))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", userID, models.ErrNotFound)
	}
	return nil
}
