package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

// For any sequence of adjustments, quantity_available never goes negative and
// the row tracks the model exactly: accepted deltas apply to both columns,
// rejected ones leave the row untouched.
func TestAdjustStock_NeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := newFakeStore()
		id := uuid.New()
		initial := rapid.IntRange(0, 50).Draw(t, "initial")
		store.seed(id, initial, initial)
		ledger := NewLedger(store)

		quantity, available := initial, initial
		ops := rapid.IntRange(1, 40).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			delta := rapid.IntRange(-15, 15).
				Filter(func(d int) bool { return d != 0 }).
				Draw(t, "delta")

			newAvailable, err := ledger.AdjustStock(context.Background(), id, delta)
			if delta < 0 && available+delta < 0 {
				if !errors.Is(err, ErrInsufficientStock) {
					t.Fatalf("delta %d with %d available: want insufficient stock, got %v", delta, available, err)
				}
			} else {
				if err != nil {
					t.Fatalf("delta %d with %d available: %v", delta, available, err)
				}
				quantity += delta
				available += delta
				if newAvailable != available {
					t.Fatalf("returned available %d, model %d", newAvailable, available)
				}
			}

			item := store.get(id)
			if item.QuantityAvailable < 0 {
				t.Fatalf("quantity_available went negative: %d", item.QuantityAvailable)
			}
			if item.Quantity != quantity || item.QuantityAvailable != available {
				t.Fatalf("row (%d, %d) diverged from model (%d, %d)",
					item.Quantity, item.QuantityAvailable, quantity, available)
			}
		}
	})
}
