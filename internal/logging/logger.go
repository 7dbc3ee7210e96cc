// internal/logging/logger.go
package logging

import (
	"os"

	"go.uber.org/zap"
)

// New builds the service logger: JSON in production, console otherwise.
func New(service string) *zap.Logger {
	var cfg zap.Config
	if os.Getenv("ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger := zap.Must(cfg.Build())
	return logger.With(zap.String("service", service))
}
