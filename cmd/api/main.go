// cmd/api/main.go
package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ticketdesk/internal/logging"
)

// The gateway fronts the dashboard services behind one origin.
func main() {
	logger := logging.New("api-gateway")
	defer logger.Sync()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	mountProxy(r, "/api/v1/catalog", getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"), logger)
	mountProxy(r, "/api/v1/identity", getEnv("IDENTITY_SERVICE_URL", "http://localhost:8083"), logger)
	mountProxy(r, "/api/v1/analytics", getEnv("ANALYTICS_SERVICE_URL", "http://localhost:8084"), logger)
	mountProxy(r, "/api/v1/scanner", getEnv("SCANNER_SERVICE_URL", "http://localhost:8085"), logger)
	mountProxy(r, "/api/v1/platform", getEnv("PLATFORM_SERVICE_URL", "http://localhost:8086"), logger)

	port := getEnv("PORT", "8080")
	logger.Info("starting API gateway", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func mountProxy(r chi.Router, prefix, target string, logger *zap.Logger) {
	upstream, err := url.Parse(target)
	if err != nil {
		logger.Fatal("invalid upstream URL", zap.String("target", target), zap.Error(err))
	}
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	r.Handle(prefix+"/*", http.StripPrefix(prefix, proxy))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
