package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"tpv/internal/apierror"
	"tpv/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter per client IP ────────────────────────────────────────

type ventana struct {
	count int
	fin   time.Time
}

type limiter struct {
	nombre  string
	limite  int
	periodo time.Duration
	mensaje string
	now     func() time.Time

	mu       sync.Mutex
	clientes map[string]*ventana
}

func newLimiter(nombre string, limite int, periodo time.Duration, mensaje string) *limiter {
	l := &limiter{
		nombre:   nombre,
		limite:   limite,
		periodo:  periodo,
		mensaje:  mensaje,
		now:      time.Now,
		clientes: make(map[string]*ventana),
	}
	registrar(l)
	return l
}

// permitir counts one request from ip. It returns false and the time left in
// the window once the limit is exceeded.
func (l *limiter) permitir(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.clientes[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.periodo)}
		l.clientes[ip] = v
	}
	v.count++
	if v.count > l.limite {
		return false, v.fin.Sub(now)
	}
	return true, 0
}

// handler enforces the limit. A non-positive limit disables it.
func (l *limiter) handler() gin.HandlerFunc {
	if l.limite <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ok, resta := l.permitir(c.ClientIP())
		if !ok {
			metrics.RateLimitRechazos.WithLabelValues(l.nombre).Inc()
			secs := int(resta.Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.WithCode("rate_limit", l.mensaje))
			return
		}
		c.Next()
	}
}

func (l *limiter) purgar() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, v := range l.clientes {
		if now.After(v.fin) {
			delete(l.clientes, ip)
			n++
		}
	}
	return n
}

// LoginRateLimiter allows limit login attempts per minute per IP.
func LoginRateLimiter(limit int) gin.HandlerFunc {
	return newLimiter("login", limit, time.Minute,
		"Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter is the general API limiter: limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter("api", limit, window,
		"Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Drops expired windows so IPs that never come back do not accumulate.

const purgeInterval = 5 * time.Minute

var (
	registroMu sync.Mutex
	registro   []*limiter
	purgeOnce  sync.Once
)

func registrar(l *limiter) {
	registroMu.Lock()
	registro = append(registro, l)
	registroMu.Unlock()
	purgeOnce.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		registroMu.Lock()
		limiters := append([]*limiter(nil), registro...)
		registroMu.Unlock()

		for _, l := range limiters {
			if n := l.purgar(); n > 0 {
				log.Debug().Str("limiter", l.nombre).Int("purged", n).Msg("rate limiter purged")
			}
		}
	}
}
