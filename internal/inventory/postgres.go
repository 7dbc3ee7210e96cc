// internal/inventory/postgres.go
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const defaultLockTimeout = 3 * time.Second

// PostgresStore backs the ledger with the items table. Row locks come from
// SELECT ... FOR UPDATE; lock waits are bounded per transaction so contended
// calls fail instead of queuing without limit.
type PostgresStore struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewPostgresStore(db *sql.DB, lockTimeout time.Duration) *PostgresStore {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &PostgresStore{db: db, lockTimeout: lockTimeout}
}

func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds()))
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("set lock timeout: %w", err)
	}

	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) FindForUpdate(ctx context.Context, itemID uuid.UUID) (*ItemStock, error) {
	item := &ItemStock{}
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, event_id, quantity, quantity_available, updated_at
		FROM items
		WHERE id = $1
		FOR UPDATE`, itemID,
	).Scan(&item.ID, &item.EventID, &item.Quantity, &item.QuantityAvailable, &item.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (t *pgTx) ApplyDelta(ctx context.Context, itemID uuid.UUID, delta int) (int, error) {
	var available int
	err := t.tx.QueryRowContext(ctx, `
		UPDATE items
		SET quantity = quantity + $2, quantity_available = quantity_available + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING quantity_available`, itemID, delta,
	).Scan(&available)
	if err != nil {
		return 0, err
	}
	return available, nil
}

func (t *pgTx) Commit() error {
	return t.tx.Commit()
}

func (t *pgTx) Rollback() error {
	return t.tx.Rollback()
}

// IsLockContention reports whether err was caused by a lock-wait timeout,
// serialization failure, or deadlock. These are infrastructure failures: the
// transaction committed nothing, so the whole adjustment is safe to retry.
func IsLockContention(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "55P03", "40001", "40P01":
			return true
		}
	}
	return false
}
