package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests over the limiter's budget with 429. A nil
// limiter disables limiting.
func RateLimit(log *zap.Logger, limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if !res.OK() {
				tooMany(w, time.Second)
				return
			}
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				log.Warn("rate limit exceeded",
					zap.String("request_id", RequestID(r.Context())),
					zap.String("path", r.URL.Path),
				)
				tooMany(w, delay)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func tooMany(w http.ResponseWriter, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"too many requests"}`))
}
