package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/pkg"
)

// ClientIP resolves the client IP once per request and stores it in the
// request context for pkg.ReadUserIP. Unresolvable requests fall back to
// the direct peer address.
func ClientIP(resolver *pkg.IPResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, err := resolver.ClientIP(r)
			if err != nil {
				log.Debugf("resolve client ip from %s: %s", r.RemoteAddr, err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(pkg.WithUserIP(r.Context(), ip)))
		})
	}
}
