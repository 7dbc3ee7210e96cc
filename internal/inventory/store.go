// internal/inventory/store.go
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemStock is the slice of a sellable item the ledger operates on. The
// database row is the single source of truth; the ledger never caches stock
// between calls.
type ItemStock struct {
	ID                uuid.UUID
	EventID           uuid.UUID
	Quantity          int
	QuantityAvailable int
	UpdatedAt         time.Time
}

// Store opens one transaction per adjustment call.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single stock-adjustment transaction. FindForUpdate acquires an
// exclusive lock on the item row and holds it until Commit or Rollback;
// concurrent transactions against the same item serialize on that lock.
type Tx interface {
	// FindForUpdate reads the current row under an exclusive lock.
	// Returns (nil, nil) when the item does not exist.
	FindForUpdate(ctx context.Context, itemID uuid.UUID) (*ItemStock, error)

	// ApplyDelta adds delta to both quantity and quantity_available as a
	// single relative UPDATE and returns the new quantity_available.
	ApplyDelta(ctx context.Context, itemID uuid.UUID, delta int) (int, error)

	Commit() error
	Rollback() error
}
