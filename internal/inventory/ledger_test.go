package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore emulates the row-lock semantics of the postgres store: a per-item
// mutex is taken in FindForUpdate and released on Commit or Rollback, and the
// pending delta becomes visible only at Commit.
type fakeStore struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*ItemStock
	locks     map[uuid.UUID]*sync.Mutex
	holdLock  map[uuid.UUID]time.Duration
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:    make(map[uuid.UUID]*ItemStock),
		locks:    make(map[uuid.UUID]*sync.Mutex),
		holdLock: make(map[uuid.UUID]time.Duration),
	}
}

func (s *fakeStore) seed(id uuid.UUID, quantity, available int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = &ItemStock{
		ID:                id,
		EventID:           uuid.New(),
		Quantity:          quantity,
		QuantityAvailable: available,
		UpdatedAt:         time.Now(),
	}
}

func (s *fakeStore) get(id uuid.UUID) ItemStock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.items[id]
}

func (s *fakeStore) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

func (s *fakeStore) Begin(ctx context.Context) (Tx, error) {
	return &fakeTx{store: s}, nil
}

type fakeTx struct {
	store   *fakeStore
	rowLock *sync.Mutex
	itemID  uuid.UUID
	pending int
	applied bool
	done    bool
}

func (t *fakeTx) FindForUpdate(ctx context.Context, itemID uuid.UUID) (*ItemStock, error) {
	m := t.store.lockFor(itemID)
	m.Lock()
	t.rowLock = m
	t.itemID = itemID

	t.store.mu.Lock()
	hold := t.store.holdLock[itemID]
	item, ok := t.store.items[itemID]
	var snapshot ItemStock
	if ok {
		snapshot = *item
	}
	t.store.mu.Unlock()

	if hold > 0 {
		time.Sleep(hold)
	}
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (t *fakeTx) ApplyDelta(ctx context.Context, itemID uuid.UUID, delta int) (int, error) {
	t.pending = delta
	t.applied = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.store.items[itemID].QuantityAvailable + delta, nil
}

func (t *fakeTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	defer t.release()

	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	if t.applied {
		t.store.mu.Lock()
		item := t.store.items[t.itemID]
		item.Quantity += t.pending
		item.QuantityAvailable += t.pending
		item.UpdatedAt = time.Now()
		t.store.mu.Unlock()
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.release()
	return nil
}

func (t *fakeTx) release() {
	if t.rowLock != nil {
		t.rowLock.Unlock()
		t.rowLock = nil
	}
}

func TestAdjustStock_Increment(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.seed(id, 100, 20)
	ledger := NewLedger(store)

	available, err := ledger.AdjustStock(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, 25, available)

	item := store.get(id)
	assert.Equal(t, 105, item.Quantity)
	assert.Equal(t, 25, item.QuantityAvailable)
}

func TestAdjustStock_InsufficientStock(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.seed(id, 50, 5)
	ledger := NewLedger(store)

	// Rejection is repeatable and never mutates the row.
	for i := 0; i < 3; i++ {
		_, err := ledger.AdjustStock(context.Background(), id, -1000)
		require.ErrorIs(t, err, ErrInsufficientStock)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, id, stockErr.ItemID)
		assert.Equal(t, -1000, stockErr.Delta)
		assert.Equal(t, 5, stockErr.Available)

		item := store.get(id)
		assert.Equal(t, 50, item.Quantity)
		assert.Equal(t, 5, item.QuantityAvailable)
	}
}

func TestAdjustStock_Sequence(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.seed(id, 50, 3)
	ledger := NewLedger(store)
	ctx := context.Background()

	_, err := ledger.AdjustStock(ctx, id, -5)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, store.get(id).QuantityAvailable)

	available, err := ledger.AdjustStock(ctx, id, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, available)
	assert.Equal(t, 47, store.get(id).Quantity)

	_, err = ledger.AdjustStock(ctx, id, -1)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, store.get(id).QuantityAvailable)

	available, err = ledger.AdjustStock(ctx, id, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, available)
	assert.Equal(t, 57, store.get(id).Quantity)
}

func TestAdjustStock_ZeroDelta(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.seed(id, 10, 10)
	ledger := NewLedger(store)

	_, err := ledger.AdjustStock(context.Background(), id, 0)
	require.ErrorIs(t, err, ErrZeroDelta)
	assert.Equal(t, 10, store.get(id).QuantityAvailable)
}

func TestAdjustStock_NotFound(t *testing.T) {
	ledger := NewLedger(newFakeStore())

	_, err := ledger.AdjustStock(context.Background(), uuid.New(), -1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestAdjustStock_ConcurrentDecrements(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.seed(id, 10, 10)
	ledger := NewLedger(store)

	const callers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, rejections := 0, 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.AdjustStock(context.Background(), id, -1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrInsufficientStock):
				rejections++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, successes)
	assert.Equal(t, 10, rejections)
	assert.Equal(t, 0, store.get(id).QuantityAvailable)
	assert.Equal(t, 0, store.get(id).Quantity)
}

func TestAdjustStock_CommitFailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.seed(id, 10, 10)
	store.commitErr = errors.New("connection reset")
	ledger := NewLedger(store)

	_, err := ledger.AdjustStock(context.Background(), id, -1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrItemNotFound)

	item := store.get(id)
	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, 10, item.QuantityAvailable)
}

func TestAdjustStock_CrossItemParallelism(t *testing.T) {
	store := newFakeStore()
	slow := uuid.New()
	fast := uuid.New()
	store.seed(slow, 10, 10)
	store.seed(fast, 10, 10)
	store.holdLock[slow] = 300 * time.Millisecond
	ledger := NewLedger(store)

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		_, err := ledger.AdjustStock(context.Background(), slow, -1)
		assert.NoError(t, err)
	}()

	// Give the slow call time to take its row lock.
	time.Sleep(50 * time.Millisecond)

	available, err := ledger.AdjustStock(context.Background(), fast, -1)
	require.NoError(t, err)
	assert.Equal(t, 9, available)

	select {
	case <-slowDone:
		t.Fatal("slow adjustment finished before the fast one; items did not proceed in parallel")
	default:
	}
	<-slowDone
}
