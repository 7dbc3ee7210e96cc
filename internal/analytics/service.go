// internal/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "analytics:event:v2:"

// Service serves analytics reports cache-aside: a report is rebuilt from the
// database only on a cache miss or an explicit refresh. Cache failures are
// never fatal; the report is simply rebuilt.
type Service interface {
	Report(ctx context.Context, eventID uuid.UUID, refresh bool) (*Report, error)
}

type service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(repo Repository, cache Cache, ttl time.Duration, logger *zap.Logger) Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *service) Report(ctx context.Context, eventID uuid.UUID, refresh bool) (*Report, error) {
	key := cacheKeyPrefix + eventID.String()

	if refresh {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to evict analytics cache", zap.String("key", key), zap.Error(err))
		}
	} else {
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		} else if data != nil {
			report := &Report{}
			if err := json.Unmarshal(data, report); err == nil {
				return report, nil
			}
			s.logger.Warn("discarding corrupt analytics cache entry", zap.String("key", key))
		}
	}

	report, err := s.build(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return report, nil
}

func (s *service) build(ctx context.Context, eventID uuid.UUID) (*Report, error) {
	overview, err := s.repo.SalesOverview(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	ranking, err := s.repo.TicketSalesRanking(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	chart, err := s.repo.DailySalesChart(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	return &Report{
		Overview:    *overview,
		Ranking:     ranking,
		Chart:       chart,
		LastUpdated: time.Now().UTC(),
	}, nil
}
