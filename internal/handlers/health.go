package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health handles GET /health. With a nil pinger it always reports ok.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.PingContext(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				writeError(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
