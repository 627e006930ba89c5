package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryofujimura/Oshiri-sub000/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, h(c))
	return rec, c
}

func bearerFor(t *testing.T, userID uint64, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, userID, role, 15)
	require.NoError(t, err)
	return "Bearer " + at.Token
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid token injects claims", func(t *testing.T) {
		rec, c := doRequest(t, JWTAuth(testSecret), bearerFor(t, 42, "ADMIN"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ADMIN", c.Get("role"))
		assert.NotNil(t, c.Get("user_id"))
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec, _ := doRequest(t, JWTAuth(testSecret), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", 42, "USER", 15)
		require.NoError(t, err)
		rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalJWT(t *testing.T) {
	t.Run("no token passes as anonymous", func(t *testing.T) {
		rec, c := doRequest(t, OptionalJWT(testSecret), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
		assert.Nil(t, c.Get("role"))
	})

	t.Run("valid token upgrades the viewer", func(t *testing.T) {
		rec, c := doRequest(t, OptionalJWT(testSecret), bearerFor(t, 7, "USER"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "USER", c.Get("role"))
	})

	t.Run("invalid token degrades to anonymous", func(t *testing.T) {
		rec, c := doRequest(t, OptionalJWT(testSecret), "Bearer broken")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
	})
}

func TestRequireRole(t *testing.T) {
	run := func(role any, allowed ...string) int {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		h := RequireRole(allowed...)(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
		_ = h(c)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("ADMIN", "ADMIN"))
	assert.Equal(t, http.StatusOK, run("USER", "USER", "ADMIN"))
	assert.Equal(t, http.StatusForbidden, run("USER", "ADMIN"))
	assert.Equal(t, http.StatusForbidden, run(nil, "ADMIN"))
	assert.Equal(t, http.StatusForbidden, run(123, "ADMIN"))
}
