// cmd/platform/main.go
package main

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"ticketdesk/internal/config"
	"ticketdesk/internal/db"
	"ticketdesk/internal/logging"
	"ticketdesk/internal/platform"
	"ticketdesk/internal/telemetry"
)

func main() {
	cfg := config.Load("8086")
	logger := logging.New("platform")
	defer logger.Sync()

	ctx := context.Background()
	tp, err := telemetry.InitTracer(ctx, "platform")
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer tp.Shutdown(ctx)

	if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	database, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	svc := platform.NewService(database, logger)
	handler := platform.NewHandler(svc, logger)

	logger.Info("starting platform service", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler.Routes()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
