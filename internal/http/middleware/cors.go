// Package middleware holds the net/http middleware the server is
// wrapped in: CORS, request IDs, and request logging. Each middleware
// takes and returns an http.Handler so they compose with plain nesting.
package middleware

import "net/http"

// CORS answers cross-origin requests for the configured origins only.
// The allowed list comes from configuration — one explicit place, not
// scattered per-route. An empty list disables cross-origin access
// entirely (the embedded UI is same-origin and unaffected).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-Request-ID")
				// The allowed origin varies per request, so caches
				// must key on it.
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
