// Package requestid tags every request with an ID for log correlation.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"kycengine/pkg/requestcontext"
)

// Header carries a caller-supplied request ID, echoed in the response.
const Header = "X-Request-ID"

const maxLength = 128

// Middleware reuses the caller's X-Request-ID when present and well formed,
// otherwise generates a UUID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
