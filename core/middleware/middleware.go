package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"

	"planner-api/core/cache"
	"planner-api/core/config"
	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/core/logger"
)

const (
	ContextKeyUserID = "user_id"
	HeaderRequestID  = "X-Request-Id"
	bearerPrefix     = "Bearer "
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates a bearer JWT (HS256, shared secret) and rejects
// blacklisted tokens. Token issuance happens outside this service; this is
// only the validation side.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return unauthorized(c, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				return unauthorized(c, errors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}
			tokenString := strings.TrimPrefix(header, bearerPrefix)

			cfg, ok := config.GetSafe()
			if !ok || cfg.JWT.Secret == "" {
				logger.Error("Middleware:AuthMiddleware:ConfigMissing")
				return c.JSON(http.StatusInternalServerError,
					errors.NewAppError(errors.ErrInternalServer, "server configuration error", nil))
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.JWT.Secret), nil
			})
			if err != nil || !token.Valid {
				code := errors.ErrUnauthorized
				if err != nil && strings.Contains(err.Error(), jwt.ErrTokenExpired.Error()) {
					code = errors.ErrTokenExpired
				}
				return unauthorized(c, code, "invalid token")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), tokenString)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", "error", err)
					return c.JSON(http.StatusInternalServerError,
						errors.NewAppError(errors.ErrInternalServer, "failed to check token blacklist", err))
				}
				if blacklisted {
					return unauthorized(c, errors.ErrUnauthorized, "token is blacklisted")
				}
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if sub, ok := claims["sub"].(string); ok {
					c.Set(ContextKeyUserID, sub)
				}
			}

			return next(c)
		}
	}
}

// RequestLogger tags every request with an id and logs its outcome.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID, _ = gonanoid.New(12)
			}
			c.Response().Header().Set(HeaderRequestID, requestID)

			start := time.Now()
			err := next(c)
			durationMs := float64(time.Since(start).Microseconds()) / 1000

			logger.Info("request_completed",
				"request_id", requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", durationMs,
			)
			return err
		}
	}
}

func unauthorized(c echo.Context, code errors.ErrorCode, message string) error {
	return c.JSON(controller.HTTPStatusFor(code), errors.NewAppError(code, message, nil))
}
