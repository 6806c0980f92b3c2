package service

import (
	"testing"

	"tpv/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidarPedido(t *testing.T) {
	assert.ErrorIs(t, validarPedido(nil, nil), ErrEmptyOrder)
	assert.ErrorIs(t, validarPedido([]uint{}, []int{1}), ErrEmptyOrder)
	assert.ErrorIs(t, validarPedido([]uint{1, 2}, []int{1}), ErrEmptyOrder)
	assert.NoError(t, validarPedido([]uint{1, 1}, []int{1, 3}))
}

func TestValidarLinea(t *testing.T) {
	activo := &model.Producto{ID: 1, Nombre: "Café", Activo: true}
	inactivo := &model.Producto{ID: 2, Nombre: "Té", Activo: false}

	assert.NoError(t, validarLinea(activo, 1))
	assert.ErrorIs(t, validarLinea(activo, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, validarLinea(activo, -3), ErrInvalidQuantity)
	assert.ErrorIs(t, validarLinea(inactivo, 2), ErrInactiveProduct)

	// Quantity is checked before the active flag.
	assert.ErrorIs(t, validarLinea(inactivo, 0), ErrInvalidQuantity)
}
