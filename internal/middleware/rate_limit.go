package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"showgrounds/paddock/internal/constants"
)

// RateLimiter hands each client IP its own token bucket.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	whitelist map[string]bool
}

// NewRateLimiter allows rps requests per second per IP with the given burst.
// Loopback callers (the local scheduler, the CLI) are never limited.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
		whitelist: map[string]bool{
			"127.0.0.1": true,
			"::1":       true,
		},
	}
}

func (l *RateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if l.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !l.get(ip).Allow() {
			writeError(w, http.StatusTooManyRequests, constants.MsgRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}
