package middleware

import (
	"net/http"
	"strings"
)

// StripRoutePrefix removes a deployment-specific path prefix before routing,
// so the same route table serves both a local gateway path (for example
// /functions/v1/api/products) and the deployed short path (/api/products).
// Requests outside the prefix pass through untouched.
func StripRoutePrefix(prefix string) func(http.Handler) http.Handler {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	return func(next http.Handler) http.Handler {
		if prefix == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
				r2 := r.Clone(r.Context())
				r2.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
				if r2.URL.Path == "" {
					r2.URL.Path = "/"
				}
				next.ServeHTTP(w, r2)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
