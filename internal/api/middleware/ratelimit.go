package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vestuario/commerce-api/internal/api/metrics"
)

// Limiter counts one request for (class, ip) and reports whether it is within
// limit, plus how long until the window resets on breach.
type Limiter interface {
	Allow(ctx context.Context, class, ip string, limit int) (bool, time.Duration, error)
}

// RateLimit rejects requests over limit per window for the given class,
// keyed by client IP. A limiter backend failure is logged and the request is
// let through (fail open): losing Redis should not take down the API.
func RateLimit(limiter Limiter, class string, limit int, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), class, c.RealIP(), limit)
			if err != nil {
				log.Warn().Err(err).Str("class", class).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(class).Inc()
				log.Warn().
					Str("class", class).
					Str("ip", c.RealIP()).
					Str("path", c.Path()).
					Msg("rate limit exceeded")

				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "too many requests, try again later",
				})
			}

			return next(c)
		}
	}
}
