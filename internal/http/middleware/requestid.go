package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ctxKey is unexported so no other package can collide with our
// context keys.
type ctxKey int

const requestIDKey ctxKey = 0

// RequestID tags every request with a unique id, echoed in the
// X-Request-ID response header and stored on the request context for
// the logging middleware. An id supplied by the client (or an upstream
// proxy) is kept so traces line up across hops.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id stored by RequestID, or "" when
// the middleware did not run.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
