package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// readyTimeout bounds the store ping behind GET /api/ready
const readyTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /api/health. It never touches the store.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{OK: true, Message: "API is running"})
}

// Ready returns a handler for GET /api/ready that reports 503 until the
// store is connected and answering pings.
func Ready(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", slog.String("error", err.Error()))
			WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{OK: false, Message: "store unavailable"})
			return
		}
		WriteJSON(w, http.StatusOK, HealthResponse{OK: true})
	}
}
