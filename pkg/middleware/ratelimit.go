package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"account-service/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window per-IP limiter on redis INCR + EXPIRE.
// If redis is unreachable the request is allowed through; the limiter must
// never take down the routes it protects.
func RateLimit(client *redis.Client, config utils.RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	window := time.Duration(config.WindowSeconds) * time.Second

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			key := fmt.Sprintf("rate-limit:%s", ip)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			// First hit in the window starts the clock
			if count == 1 {
				if err := client.Expire(r.Context(), key, window).Err(); err != nil {
					logger.Warn("Failed to set rate limit window", zap.Error(err))
				}
			}

			if count > int64(config.Requests) {
				logger.Warn("Rate limit exceeded",
					zap.String("ip", ip),
					zap.Int64("count", count))
				utils.ResponseTooManyRequests(w, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
