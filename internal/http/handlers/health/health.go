// Package health exposes a liveness endpoint that also reports whether
// the record store is reachable, for dashboards and uptime probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/utils/response"
)

// pingTimeout keeps a dead database from stalling the probe.
const pingTimeout = 2 * time.Second

// Check handles GET /api/health
//
// Response (always 200 — a down database is reported, not an error):
//
//	{ "status": "ok", "database": "connected", "timestamp": "..." }
func Check(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		database := "unknown"

		// Backends that can report connectivity implement Pinger;
		// the interface stays four operations for everyone else.
		if p, ok := store.(storage.Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				database = "disconnected"
			} else {
				database = "connected"
			}
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
