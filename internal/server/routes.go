package server

import (
	_ "embed"
	"log/slog"
	"net/http"
	"time"
)

//go:embed index.html
var indexPage []byte

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// RateLimit is the number of requests allowed per client within
	// RateWindow.
	RateLimit int
	// RateWindow is the sliding window the rate limit applies to.
	RateWindow time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		RateLimit:      100,
		RateWindow:     15 * time.Minute,
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	// Register routes with method-based patterns (Go 1.22+)
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /upload", h.Upload)
	mux.HandleFunc("GET /files", h.RequireAPIKey(h.Files))
	mux.HandleFunc("GET /delete", h.RequireAPIKey(h.Delete))
	mux.HandleFunc("GET /video/{name}", h.Video)

	// JSON body for every unmatched route
	mux.HandleFunc("/", h.NotFound)

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
		RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow),
	)

	return chain(mux)
}

// Index serves the embedded upload page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}
