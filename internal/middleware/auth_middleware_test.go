package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/home-digital/cloudee/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuth(t *testing.T, authService *services.AuthService, path, authorization string) (echo.Context, *httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	handler := func(c echo.Context) error {
		handlerCalled = true
		return c.String(http.StatusOK, "OK")
	}

	err := AuthMiddleware(authService)(handler)(c)
	return c, rec, handlerCalled, err
}

func TestAuthMiddleware_SkipsPublicRoutes(t *testing.T) {
	authService := services.NewAuthService("s3cret")

	for _, path := range []string{"/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			_, _, called, err := runAuth(t, authService, path, "")

			assert.NoError(t, err)
			assert.True(t, called, "handler should be called for public path %s", path)
		})
	}
}

func TestAuthMiddleware_DisabledPassesEverything(t *testing.T) {
	_, _, called, err := runAuth(t, services.NewAuthService(""), "/api/cloudee/users", "")

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	_, rec, called, err := runAuth(t, services.NewAuthService("s3cret"), "/api/cloudee/users", "")

	assert.False(t, called, "handler should not be called without token")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuthMiddleware_RejectsOtherSchemes(t *testing.T) {
	_, _, called, err := runAuth(t, services.NewAuthService("s3cret"), "/api/cloudee/users", "Basic YWRtaW46YWRtaW4=")

	assert.False(t, called)
	assert.Error(t, err)
}

func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	other, err := services.NewAuthService("other").IssueToken("portal", time.Hour)
	require.NoError(t, err)

	_, rec, called, err := runAuth(t, services.NewAuthService("s3cret"), "/api/cloudee/users", "Bearer "+other)

	assert.False(t, called)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), "invalid_token")
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	authService := services.NewAuthService("s3cret")
	token, err := authService.IssueToken("portal", time.Hour)
	require.NoError(t, err)

	c, _, called, err := runAuth(t, authService, "/api/cloudee/users", "Bearer "+token)

	require.NoError(t, err)
	assert.True(t, called)
	claims, ok := c.Get(utils.ContextKeyClaims).(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, "portal", claims.Subject)
}
