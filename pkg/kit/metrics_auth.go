package kit

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MetricsAuth admits requests whose bearer token matches the bcrypt hash.
// An empty hash closes the endpoint.
func MetricsAuth(tokenHash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(tokenHash) == 0 {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			token := strings.TrimPrefix(authz, "Bearer ")
			if bcrypt.CompareHashAndPassword(tokenHash, []byte(token)) != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
