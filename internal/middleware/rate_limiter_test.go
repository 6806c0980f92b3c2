package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Ventana(t *testing.T) {
	l := newLimiter("test", 2, time.Minute, "demasiadas")
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	ok, _ := l.permitir("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.permitir("10.0.0.1")
	assert.True(t, ok)
	ok, resta := l.permitir("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, resta)

	// Other clients have their own window.
	ok, _ = l.permitir("10.0.0.2")
	assert.True(t, ok)

	clock = clock.Add(time.Minute + time.Second)
	ok, _ = l.permitir("10.0.0.1")
	assert.True(t, ok)
}

func TestLimiter_Purgar(t *testing.T) {
	l := newLimiter("test", 5, time.Minute, "demasiadas")
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	l.permitir("a")
	clock = clock.Add(30 * time.Second)
	l.permitir("b")
	clock = clock.Add(45 * time.Second)

	assert.Equal(t, 1, l.purgar())
	assert.Len(t, l.clientes, 1)
	assert.Contains(t, l.clientes, "b")
}

func TestRateLimiter_Responde429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RateLimiter(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	secs, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 60, secs, 2)
	assert.Contains(t, w.Body.String(), `"code":"rate_limit"`)
}

func TestRateLimiter_LimiteCeroDesactiva(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", LoginRateLimiter(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}
