package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/flight-seat-booking/internal/utils"
)

const testSecret = "test-secret"

func runWithAuth(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return c, rec, h(c)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	_, rec, err := runWithAuth(t, JWTAuth(testSecret), "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthStoresClaims(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	c, rec, err := runWithAuth(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestOptionalJWTPassesAnonymousThrough(t *testing.T) {
	c, rec, err := runWithAuth(t, OptionalJWT(testSecret), "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("role"))
}

func TestOptionalJWTIgnoresInvalidToken(t *testing.T) {
	c, rec, err := runWithAuth(t, OptionalJWT(testSecret), "Bearer not-a-token")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("role"))
}

func TestOptionalJWTStoresClaimsForValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "ADMIN", 15)
	require.NoError(t, err)

	c, rec, err := runWithAuth(t, OptionalJWT(testSecret), "Bearer "+tok.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", c.Get("role"))
}
