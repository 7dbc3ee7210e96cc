// internal/inventory/ledger.go
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrZeroDelta         = errors.New("stock delta must not be zero")
)

// InsufficientStockError carries the diagnostics for a rejected decrement.
// It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Delta     int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: need %d, have %d", e.ItemID, -e.Delta, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Ledger owns atomic stock adjustments for sellable items. Every call is a
// self-contained transaction; the ledger performs no internal retries and
// emits no events.
type Ledger struct {
	store  Store
	tracer trace.Tracer
}

func NewLedger(store Store) *Ledger {
	return &Ledger{
		store:  store,
		tracer: otel.Tracer("ticketdesk/inventory"),
	}
}

// AdjustStock applies a signed delta to both quantity and quantity_available
// of the item, refusing to push quantity_available below zero. It returns the
// new quantity_available on success.
//
// Failure taxonomy: ErrItemNotFound and ErrInsufficientStock are terminal for
// the request; ErrZeroDelta is a caller bug; any other error is an
// infrastructure failure, and since nothing was committed the caller may
// retry the whole call.
func (l *Ledger) AdjustStock(ctx context.Context, itemID uuid.UUID, delta int) (int, error) {
	if delta == 0 {
		return 0, ErrZeroDelta
	}

	ctx, span := l.tracer.Start(ctx, "inventory.adjust_stock",
		trace.WithAttributes(
			attribute.String("item.id", itemID.String()),
			attribute.Int("stock.delta", delta),
		),
	)
	defer span.End()

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := tx.FindForUpdate(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("lock item row: %w", err)
	}
	if item == nil {
		return 0, ErrItemNotFound
	}

	if delta < 0 && item.QuantityAvailable+delta < 0 {
		span.SetAttributes(attribute.Bool("stock.rejected", true))
		return 0, &InsufficientStockError{
			ItemID:    itemID,
			Delta:     delta,
			Available: item.QuantityAvailable,
		}
	}

	available, err := tx.ApplyDelta(ctx, itemID, delta)
	if err != nil {
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	span.SetAttributes(attribute.Int("stock.available", available))
	return available, nil
}
