package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows each client address maxRequests per window, with bursts
// up to maxRequests. Idle clients are forgotten after three windows (at
// least a minute). maxRequests < 1 disables limiting.
func RateLimit(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	if maxRequests < 1 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	expiry := 3 * window
	if expiry < time.Minute {
		expiry = time.Minute
	}
	every := rate.Every(window / time.Duration(maxRequests))

	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientAddr(r)
			now := time.Now()

			mu.Lock()
			if now.Sub(lastSweep) > expiry {
				for k, v := range visitors {
					if now.Sub(v.lastSeen) > expiry {
						delete(visitors, k)
					}
				}
				lastSweep = now
			}
			v, ok := visitors[key]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(every, maxRequests)}
				visitors[key] = v
			}
			v.lastSeen = now
			allowed := v.limiter.Allow()
			mu.Unlock()

			if !allowed {
				respondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr is the host part of RemoteAddr. Proxy headers only count when
// middleware.RealIP runs earlier in the chain and has rewritten RemoteAddr.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
