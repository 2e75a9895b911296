package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const defaultPingTimeout = 2 * time.Second

// StorePinger is the part of the backend the readiness check needs.
type StorePinger interface {
	Ping(ctx context.Context) error
	Driver() string
}

type HealthHandler struct {
	store       StorePinger
	pingTimeout time.Duration
	started     time.Time
}

func NewHealthHandler(store StorePinger) *HealthHandler {
	return &HealthHandler{store: store, pingTimeout: defaultPingTimeout, started: time.Now()}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        "1.0.0",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness pings the store on every request, bounded by pingTimeout.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()

	store := map[string]any{"driver": h.store.Driver(), "status": "ok"}
	httpStatus := http.StatusOK

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "readiness check failed: store unavailable",
			"driver", h.store.Driver(), "error", err)
		store["status"] = "down"
		httpStatus = http.StatusServiceUnavailable
	} else {
		store["latency_ms"] = time.Since(start).Milliseconds()
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]any{
			"store": store,
		},
	})
}
