package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	pgpkg "github.com/zephyrpay/remit/pkg/postgres"
)

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	pool   *pgxpool.Pool
	cache  *redis.Client
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler. The cache client is
// optional; readiness skips the check when it is nil.
func NewHealthHandler(pool *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pool: pool, cache: cache, logger: logger}
}

// healthResponse is the JSON body returned by health endpoints.
type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// LivenessHandler returns 200 if the process is alive.
func (h *HealthHandler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:    "UP",
			Service:   "remit",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ReadinessHandler returns 200 if the service is ready to accept traffic.
// It checks the database connection and, when configured, the quote cache.
func (h *HealthHandler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		status := "UP"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pgpkg.HealthCheck(ctx, h.pool); err != nil {
			checks["postgres"] = fmt.Sprintf("DOWN: %v", err)
			status = "DOWN"
			h.logger.Warn("readiness check failed", "dependency", "postgres", "error", err)
		} else {
			checks["postgres"] = "UP"
		}

		if h.cache != nil {
			if err := h.cache.Ping(ctx).Err(); err != nil {
				// The quote cache is best-effort; a down cache does not
				// make the service unready.
				checks["redis"] = fmt.Sprintf("DOWN: %v", err)
				h.logger.Warn("readiness check failed", "dependency", "redis", "error", err)
			} else {
				checks["redis"] = "UP"
			}
		}

		resp := healthResponse{
			Status:    status,
			Service:   "remit",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		}
		if status != "UP" {
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
