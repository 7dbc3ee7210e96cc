// cmd/identity/main.go
package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ticketdesk/internal/config"
	"ticketdesk/internal/db"
	"ticketdesk/internal/identity"
	"ticketdesk/internal/logging"
	"ticketdesk/internal/telemetry"
)

func main() {
	cfg := config.Load("8083")
	logger := logging.New("identity")
	defer logger.Sync()

	ctx := context.Background()
	tp, err := telemetry.InitTracer(ctx, "identity")
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer tp.Shutdown(ctx)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	svc := identity.NewService(database)
	handler := identity.NewHandler(svc, logger)

	logger.Info("starting identity service", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler.Routes()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
