package middleware

import (
	stdjson "encoding/json"
	"fmt"
	"net/http"

	perr "intake/internal/platform/errors"
	pnet "intake/internal/platform/net"
)

// ClaimsHeader carries the authorizer claims JSON injected by the gateway
// after it has verified the caller's token. The service trusts this header;
// the deployment must strip it from external traffic
const ClaimsHeader = "X-Authorizer-Claims"

// Claims extracts authorizer claims into the request context. When required
// is true, requests without claims are rejected with a 401 envelope
func Claims(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(ClaimsHeader)
			if raw == "" {
				if required {
					writeGuardError(w, r, perr.Unauthorizedf("Authentication required."))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			var parsed map[string]any
			if err := stdjson.Unmarshal([]byte(raw), &parsed); err != nil {
				writeGuardError(w, r, perr.Unauthorizedf("Authentication required."))
				return
			}
			c := make(pnet.Claims, len(parsed))
			for k, v := range parsed {
				switch t := v.(type) {
				case string:
					c[k] = t
				case float64, bool:
					c[k] = fmt.Sprint(t)
				}
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithClaims(r.Context(), c)))
		})
	}
}
