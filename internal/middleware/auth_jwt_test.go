package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func testToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func defaultClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  "5",
		"role": "CUSTOMER",
		"tv":   1,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
}

// AuthJWTを通したhandlerを1回呼んで結果を返す
func callWithAuth(authz string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	h := mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": c.Get(middleware.CtxUserIDKey),
			"role":    c.Get(middleware.CtxUserRoleKey),
		})
	})
	_ = h(c)
	return rec
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec := callWithAuth("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec := callWithAuth("Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_BadSignature(t *testing.T) {
	token := testToken(t, "wrong-secret", defaultClaims())
	rec := callWithAuth("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	token := testToken(t, testSecret, claims)
	rec := callWithAuth("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_MissingRole(t *testing.T) {
	claims := defaultClaims()
	delete(claims, "role")

	token := testToken(t, testSecret, claims)
	rec := callWithAuth("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ValidToken_SetsContext(t *testing.T) {
	token := testToken(t, testSecret, defaultClaims())
	rec := callWithAuth("Bearer " + token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":5`)
	assert.Contains(t, rec.Body.String(), `"role":"CUSTOMER"`)
}
