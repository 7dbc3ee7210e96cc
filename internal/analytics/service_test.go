package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepository struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRepository) SalesOverview(ctx context.Context, eventID uuid.UUID) (*Overview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &Overview{TotalSold: 42, TotalRevenue: 1050, TotalPlatformFee: 52.5}, nil
}

func (f *fakeRepository) TicketSalesRanking(ctx context.Context, eventID uuid.UUID) ([]RankingEntry, error) {
	return []RankingEntry{{TicketName: "GA", TotalSold: 42, TotalRevenue: 1050}}, nil
}

func (f *fakeRepository) DailySalesChart(ctx context.Context, eventID uuid.UUID) ([]DailySales, error) {
	return []DailySales{{Date: "2026-08-01", TotalSold: 42, TotalRevenue: 1050}}, nil
}

func (f *fakeRepository) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func TestReport_CacheAside(t *testing.T) {
	repo := &fakeRepository{}
	cache := newFakeCache()
	svc := NewService(repo, cache, time.Hour, zap.NewNop())
	eventID := uuid.New()
	ctx := context.Background()

	first, err := svc.Report(ctx, eventID, false)
	require.NoError(t, err)
	assert.Equal(t, 42, first.Overview.TotalSold)
	assert.Equal(t, 1, repo.callCount())

	// Second call is served from the cache.
	second, err := svc.Report(ctx, eventID, false)
	require.NoError(t, err)
	assert.Equal(t, first.LastUpdated.Unix(), second.LastUpdated.Unix())
	assert.Equal(t, 1, repo.callCount())
}

func TestReport_RefreshBypassesCache(t *testing.T) {
	repo := &fakeRepository{}
	cache := newFakeCache()
	svc := NewService(repo, cache, time.Hour, zap.NewNop())
	eventID := uuid.New()
	ctx := context.Background()

	_, err := svc.Report(ctx, eventID, false)
	require.NoError(t, err)

	_, err = svc.Report(ctx, eventID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.callCount())
}

func TestReport_CacheFailureFallsThrough(t *testing.T) {
	repo := &fakeRepository{}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	svc := NewService(repo, cache, time.Hour, zap.NewNop())

	report, err := svc.Report(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	assert.Equal(t, 42, report.Overview.TotalSold)
	assert.Equal(t, 1, repo.callCount())
}
