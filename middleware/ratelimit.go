package middleware

import (
	"net/http"
	"strconv"

	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/ratelimit"
)

// IPRateLimit, tüm API için IP bazlı global limit. Limit aşılınca
// Retry-After header'ı ile 429 döner.
func IPRateLimit(limiter *ratelimit.IPLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ratelimit.ExtractIP(r)
			if !limiter.Allow(ip) {
				retryAfter := limiter.RetryAfterSeconds(ip)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
					"too many requests, please try again in "+ratelimit.FormatRetryMessage(retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
