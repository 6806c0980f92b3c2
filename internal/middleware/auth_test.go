package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tpv/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, secret string, userID uint, rol string, dur time.Duration) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   userID,
		Username: "u",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func ginTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuth(testSecret))
	r.GET("/protected", func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "rol": claims.Rol})
	})
	r.GET("/admin", middleware.RequireRole("administrador"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestProtectedEndpoint_NoToken(t *testing.T) {
	w := get(ginTestRouter(), "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedEndpoint_ValidToken(t *testing.T) {
	w := get(ginTestRouter(), "/protected", signToken(t, testSecret, 42, "vendedor", time.Hour))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["user_id"])
	assert.Equal(t, "vendedor", body["rol"])
}

func TestProtectedEndpoint_ExpiredToken(t *testing.T) {
	w := get(ginTestRouter(), "/protected", signToken(t, testSecret, 42, "vendedor", -time.Second))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedEndpoint_WrongSecret(t *testing.T) {
	w := get(ginTestRouter(), "/protected", signToken(t, "another_secret_entirely_different", 42, "vendedor", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedEndpoint_ZeroUserID(t *testing.T) {
	w := get(ginTestRouter(), "/protected", signToken(t, testSecret, 0, "vendedor", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	w := get(ginTestRouter(), "/admin", signToken(t, testSecret, 42, "vendedor", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_CorrectRole(t *testing.T) {
	w := get(ginTestRouter(), "/admin", signToken(t, testSecret, 1, "administrador", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_SinJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", middleware.RequireRole("administrador"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "").Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDKey))
	})

	w := get(r, "/ping", "")
	generated := w.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}
