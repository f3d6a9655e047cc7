package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	appErrors "github.com/aaravmahajanofficial/users-api/internal/errors"
	repository "github.com/aaravmahajanofficial/users-api/internal/repositories"
	"github.com/aaravmahajanofficial/users-api/internal/utils/response"
)

// RateLimit rejects clients over their window with a 429. Limiter failures
// let the request through.
func RateLimit(limiter repository.RateLimitRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())
			clientKey := clientIP(r)

			allowed, retryAfter, err := limiter.CheckRateLimit(r.Context(), clientKey)
			if err != nil {
				logger.Error("Rate limit check failed", slog.String("client", clientKey), slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn("Rate limit exceeded", slog.String("client", clientKey), slog.Int("retry_after", retryAfter))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				response.Error(w, appErrors.TooManyRequestsError("Too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
