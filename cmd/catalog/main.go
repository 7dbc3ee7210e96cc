// cmd/catalog/main.go
package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ticketdesk/internal/catalog"
	"ticketdesk/internal/config"
	"ticketdesk/internal/db"
	"ticketdesk/internal/inventory"
	"ticketdesk/internal/logging"
	"ticketdesk/internal/telemetry"
)

func main() {
	cfg := config.Load("8081")
	logger := logging.New("catalog")
	defer logger.Sync()

	ctx := context.Background()
	tp, err := telemetry.InitTracer(ctx, "catalog")
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

	ledger := inventory.NewLedger(inventory.NewPostgresStore(database, cfg.LockTimeout))
	search := catalog.NewMeiliIndex(cfg.MeiliHost, cfg.MeiliAPIKey)
	svc := catalog.NewService(database, ledger, search, logger)
	handler := catalog.NewHandler(svc, logger)

	logger.Info("starting catalog service", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler.Routes()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
