package middleware

import (
	"net/http"

	"ganadero/internal/platform/logger"
	pnet "ganadero/internal/platform/net"
)

// EstablishmentHeader optionally scopes a request to one establishment for logging
const EstablishmentHeader = "X-Establishment-ID"

// Establishment copies the X-Establishment-ID header onto the request and logger contexts.
// Handlers still take the establishment from the validated body; this only enriches logs
func Establishment(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(EstablishmentHeader); id != "" {
			ctx := pnet.WithEstablishment(r.Context(), id)
			ctx = logger.WithEstablishment(ctx, id)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
