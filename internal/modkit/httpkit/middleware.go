package httpkit

import (
	"net/http"
	"time"

	"ganadero/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	SlowRequest time.Duration
	// Observe wraps every request after routing, used for request metrics
	Observe func(http.Handler) http.Handler
}

// CommonStack returns the baseline middleware slice for the versioned API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Establishment,

		// observability before recovery so panics are logged with status 500
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.RecoverJSON,

		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(),
		middleware.Timeout(o.Timeout),
	}
	if o.Observe != nil {
		stack = append(stack, o.Observe)
	}
	return stack
}
