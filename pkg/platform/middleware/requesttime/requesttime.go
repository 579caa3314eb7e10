// Package requesttime provides middleware for request-scoped time.
// Every check in one request uses the same "now", which is also the
// default reference date for document ages.
package requesttime

import (
	"net/http"
	"time"

	"kycengine/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request
// and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
