// cmd/analytics/main.go
package main

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ticketdesk/internal/analytics"
	"ticketdesk/internal/config"
	"ticketdesk/internal/logging"
	"ticketdesk/internal/telemetry"
)

func main() {
	cfg := config.Load("8084")
	logger := logging.New("analytics")
	defer logger.Sync()

	ctx := context.Background()
	tp, err := telemetry.InitTracer(ctx, "analytics")
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer tp.Shutdown(ctx)

	database, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	repo := analytics.NewRepository(database)
	cache := analytics.NewRedisCache(redisClient)
	svc := analytics.NewService(repo, cache, cfg.AnalyticsTTL, logger)
	handler := analytics.NewHandler(svc, logger)

	logger.Info("starting analytics service", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler.Routes()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
