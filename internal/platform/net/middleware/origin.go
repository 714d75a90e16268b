package middleware

import (
	stdjson "encoding/json"
	"net/http"
	"strings"

	perr "intake/internal/platform/errors"
	"intake/internal/platform/logger"
	pnet "intake/internal/platform/net"
)

// OriginGuard enforces that requests carry an allowed Origin header.
// The CORS allow-origin header is echoed on every outcome so preflight
// caching stays consistent even on rejection paths: the matched origin
// when accepted, the first configured origin otherwise.
// Health probes are mounted outside this middleware
func OriginGuard(allowed []string) func(http.Handler) http.Handler {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	fallback := ""
	if len(allowed) > 0 {
		fallback = strings.TrimRight(strings.TrimSpace(allowed[0]), "/")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimRight(strings.TrimSpace(r.Header.Get("Origin")), "/")

			if origin == "" {
				w.Header().Set("Access-Control-Allow-Origin", fallback)
				logger.C(r.Context()).Warn().
					Str("ip", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("request without origin rejected")
				writeGuardError(w, r, perr.New(perr.ErrorCodeOriginRequired, "Origin header is required."))
				return
			}
			if !set[origin] {
				w.Header().Set("Access-Control-Allow-Origin", fallback)
				logger.C(r.Context()).Warn().
					Str("origin", origin).
					Str("ip", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("origin not allowed")
				writeGuardError(w, r, perr.New(perr.ErrorCodeOriginNotAllowed, "Origin is not allowed."))
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			next.ServeHTTP(w, r.WithContext(pnet.WithOrigin(r.Context(), origin)))
		})
	}
}

// Preflight answers OPTIONS with a bare 204 plus CORS headers, before any
// other logic runs
func Preflight(allowed []string) func(http.Handler) http.Handler {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	fallback := ""
	if len(allowed) > 0 {
		fallback = strings.TrimRight(strings.TrimSpace(allowed[0]), "/")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			origin := strings.TrimRight(strings.TrimSpace(r.Header.Get("Origin")), "/")
			echo := fallback
			if set[origin] {
				echo = origin
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", echo)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Max-Age", "600")
			h.Set("Vary", "Origin")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// writeGuardError writes the flat error envelope without going through the
// respond helpers (middleware stays below the http package in the import graph)
func writeGuardError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := pnet.Error(err, pnet.RequestID(r.Context()))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = stdjson.NewEncoder(w).Encode(body)
}
