package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	domainerrors "posterforge/internal/errors"
	"posterforge/internal/metrics"
	"posterforge/pkg/logging/logging"
)

// Limiter decides whether a client key may make another request.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// RateLimit rejects clients over their allowance with 429 and a Retry-After
// header. Clients are keyed by IP, so mount chi's RealIP first when running
// behind a proxy.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, retryAfter := l.Allow(ip)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			metrics.RateLimitedTotal.Inc()
			logging.L(r.Context()).Warn("rate limited",
				zap.String("client_ip", ip),
				zap.Duration("retry_after", retryAfter),
			)

			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeFailure(w, domainerrors.RateLimited("Too many requests, please try again later."))
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
