package middleware

import (
	"encoding/json"
	"net/http"
)

// DefaultMaxBodyBytes is the default maximum request body size (1 MiB).
const DefaultMaxBodyBytes = 1 << 20

// MaxBytes caps the request body for routes that accept one. A declared
// Content-Length over the cap is answered with 413 and a JSON error before the
// handler runs; bodies without a length fail on read with *http.MaxBytesError.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				json.NewEncoder(w).Encode(map[string]string{"error": "request body too large"})
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
