package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/home-digital/cloudee/internal/utils"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetClaims retrieves the verified token claims from the context
func GetClaims(c echo.Context) (*jwt.RegisteredClaims, error) {
	val := c.Get(utils.ContextKeyClaims)
	if val == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	claims, ok := val.(*jwt.RegisteredClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return claims, nil
}

// actor names the caller for audit logs
func actor(c echo.Context) string {
	claims, err := GetClaims(c)
	if err != nil || claims.Subject == "" {
		return "anonymous"
	}
	return claims.Subject
}

// audit logs a completed change to the remote system
func audit(c echo.Context, msg string, fields ...zap.Field) {
	logger := logging.WithContext(c.Request().Context())
	logger.Info(msg, append(fields, logging.String("actor", actor(c)))...)
}

// RemoteError maps a backend failure onto an HTTP error
func RemoteError(err error, msg string) error {
	var ocsErr *services.OCSError
	switch {
	case errors.As(err, &ocsErr):
		code := http.StatusBadGateway
		if errors.Is(err, services.ErrNotFound) {
			code = http.StatusNotFound
		}
		return echo.NewHTTPError(code, msg+": "+ocsErr.Message).SetInternal(err)
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
	case errors.Is(err, services.ErrArchiveDisabled):
		return echo.NewHTTPError(http.StatusNotImplemented, "Archive storage is not configured").SetInternal(err)
	case errors.Is(err, services.ErrRemoteUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, msg).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msg).SetInternal(err)
	}
}

// bind decodes the request into v and reports a 400 on malformed input
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request").SetInternal(err)
	}
	return nil
}

// required takes name/value pairs and returns a 400 naming the first empty field
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing field: "+pairs[i])
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}
	return nil
}

// relay writes an OCS response back to the caller unchanged
func relay(c echo.Context, resp *services.OCSResponse) error {
	if resp == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, resp)
}
