// Package requesttime captures a single "now" per HTTP request so every
// timestamp produced while handling it (issuance dates, audit events) agrees.
package requesttime

import (
	"net/http"
	"time"

	"civreg/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
