package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/hmkim/club-ledger/pkg/response"
)

type HealthHandler struct {
	db      *sqlx.DB
	cache   *redis.Client
	timeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, cache *redis.Client, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs readiness checks against the database and, when
// configured, the cache.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		status.Status = "error"
		status.Checks["database"] = "failed: " + err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	if h.cache != nil {
		cacheCtx, cacheCancel := context.WithTimeout(r.Context(), h.timeout)
		defer cacheCancel()

		if err := h.cache.Ping(cacheCtx).Err(); err != nil {
			status.Status = "error"
			status.Checks["cache"] = "failed: " + err.Error()
		} else {
			status.Checks["cache"] = "ok"
		}
	}

	if status.Status == "error" {
		response.Error(w, http.StatusServiceUnavailable, "service not ready", nil)
		return
	}

	response.Success(w, status)
}
