package ratelimiter

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/bluebird/pkg/clientip"
	"github.com/dmitrymomot/bluebird/pkg/handler"
	"github.com/dmitrymomot/bluebird/pkg/logger"
)

var ErrTooManyRequests = handler.NewHTTPError(http.StatusTooManyRequests, "too_many_requests")

// KeyFunc extracts a rate limit key from the request. An empty key skips
// limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the address stored by clientip.Middleware.
func ByClientIP(scope string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.FromContext(r.Context())
		if ip == "" {
			return ""
		}
		return scope + ":" + ip
	}
}

// Middleware limits requests per key and answers 429 with Retry-After once
// the bucket is empty. A store failure is logged and the request is let
// through.
func Middleware(b *Bucket, keyFunc KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := b.Allow(r.Context(), key)
			if err != nil {
				log.WarnContext(r.Context(), "rate limit check failed", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				secs := int(math.Ceil(result.RetryAfter().Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				_ = handler.Error(ErrTooManyRequests).Render(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
