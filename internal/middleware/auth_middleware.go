package middleware

import (
	"net/http"
	"strings"

	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/metrics"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/home-digital/cloudee/internal/utils"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware requires a valid bearer token on every non-public route.
// With authentication disabled every request passes.
func AuthMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Skip for public routes
			path := c.Request().URL.Path
			if path == "/health" || path == "/metrics" || !authService.Enabled() {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, utils.BearerPrefix) {
				metrics.RecordAuthAttempt(false)
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
			}

			claims, err := authService.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, utils.BearerPrefix)))
			if err != nil {
				metrics.RecordAuthAttempt(false)
				logging.WithContext(c.Request().Context()).Debug("token rejected", logging.Err(err))
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			metrics.RecordAuthAttempt(true)
			// Store claims in context for handlers to use
			c.Set(utils.ContextKeyClaims, claims)

			return next(c)
		}
	}
}
