package http

import (
	"log/slog"
	"strconv"

	"freight/internal/core/application/ratelimit"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	HeaderUserID     = "X-User-ID"
	HeaderActingRole = "X-Acting-Role"

	actorContextKey = "actor"
)

// resolveActor turns the authenticated user into the acting profile. Users with
// both profiles pick one with HeaderActingRole.
func resolveActor(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(HeaderUserID)
			if userID == "" {
				return errs.NewAuthorizationError("anonymous", c.Request().Method+" "+c.Path(),
					"the "+HeaderUserID+" header is required")
			}
			role := kernel.Role(c.Request().Header.Get(HeaderActingRole))

			actor, err := resolver.Resolve(c.Request().Context(), userID, role)
			if err != nil {
				return err
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorOf(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errs.NewValueIsRequiredError("actor")
	}
	return actor, nil
}

// rateLimit counts the request against the user's window of action. It must run
// after resolveActor.
func rateLimit(limiter *ratelimit.RateLimiter, action ratelimit.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorOf(c)
			if err != nil {
				return err
			}

			res, err := limiter.Allow(c.Request().Context(), "user:"+actor.UserID(), action)
			if !res.Degraded && res.Limit > 0 {
				h := c.Response().Header()
				h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
				h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
				h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}
			if err != nil {
				return err
			}
			return next(c)
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"user_id", c.Request().Header.Get(HeaderUserID),
			}
			if v.Error != nil {
				logger.WarnContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
