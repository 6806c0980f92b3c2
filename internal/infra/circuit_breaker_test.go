package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp down")

func newTestBreaker() (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	})
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func fail() error { return errSMTP }
func succeed() error { return nil }

func TestCircuitBreaker_AbreTrasUmbral(t *testing.T) {
	cb, _ := newTestBreaker()

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errSMTP)
		assert.Equal(t, CBClosed, cb.State())
	}
	assert.ErrorIs(t, cb.Execute(fail), errSMTP)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_ExitoReiniciaFallos(t *testing.T) {
	cb, _ := newTestBreaker()

	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))
	require.NoError(t, cb.Execute(succeed))
	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbiertoCierra(t *testing.T) {
	cb, clock := newTestBreaker()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, CBOpen, cb.State())

	*clock = clock.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbiertoReabre(t *testing.T) {
	cb, clock := newTestBreaker()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	*clock = clock.Add(2 * time.Minute)
	require.Equal(t, CBHalfOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errSMTP)
	assert.Equal(t, CBOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitOpen)
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "smtp"})
	assert.Equal(t, DefaultCBConfig("smtp"), cb.cfg)
	assert.Equal(t, "closed", cb.State().String())
}
