package http

import (
	"net/http"
	"strings"
)

// CORSMiddleware adds CORS headers for the configured origins. Listed origins
// are echoed back with credentials allowed; "*" allows any other origin but
// without credentials.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				switch matchOrigin(allowedOrigins, origin) {
				case originListed:
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Add("Vary", "Origin")
				case originWildcard:
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type originMatch int

const (
	originDenied originMatch = iota
	originListed
	originWildcard
)

// an exact entry wins over "*" wherever it appears in the list
func matchOrigin(allowedOrigins []string, origin string) originMatch {
	match := originDenied
	for _, allowed := range allowedOrigins {
		switch strings.TrimSpace(allowed) {
		case origin:
			return originListed
		case "*":
			match = originWildcard
		}
	}
	return match
}
