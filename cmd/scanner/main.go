// cmd/scanner/main.go
package main

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ticketdesk/internal/clients"
	"ticketdesk/internal/config"
	"ticketdesk/internal/logging"
	"ticketdesk/internal/scanner"
	"ticketdesk/internal/telemetry"
)

func main() {
	cfg := config.Load("8085")
	logger := logging.New("scanner")
	defer logger.Sync()

	ctx := context.Background()
	tp, err := telemetry.InitTracer(ctx, "scanner")
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer tp.Shutdown(ctx)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	core := clients.NewCoreClient(cfg.CoreAPIURL)
	svc := scanner.NewService(core, scanner.NewRedisPublisher(redisClient), logger)
	handler := scanner.NewHandler(svc, logger)

	logger.Info("starting scanner service", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler.Routes()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
