package middleware

import (
	"net/http"
	"strings"
)

// AnyOrigin in the origins list allows every origin.
const AnyOrigin = "*"

// DefaultCORSAllowedMethods is the set of methods allowed for CORS.
var DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}

// DefaultCORSAllowedHeaders is the set of request headers allowed for CORS.
var DefaultCORSAllowedHeaders = []string{"Content-Type"}

// CORS returns a middleware that sets CORS response headers and answers OPTIONS preflight
// with 204. When origins contains "*", every response carries Access-Control-Allow-Origin: *.
// When origins is empty, the middleware is a no-op.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	anyOrigin := false
	originSet := make(map[string]bool)
	for _, o := range origins {
		if o == AnyOrigin {
			anyOrigin = true
		}
		originSet[o] = true
	}
	methods := strings.Join(DefaultCORSAllowedMethods, ", ")
	headers := strings.Join(DefaultCORSAllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := ""
			switch {
			case anyOrigin:
				allowed = AnyOrigin
			case origin != "" && originSet[origin]:
				allowed = origin
				w.Header().Add("Vary", "Origin")
			}
			if allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
