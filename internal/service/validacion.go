package service

import (
	"fmt"

	"tpv/internal/model"
)

// validarPedido checks the shape of a settlement request before any store
// access: at least one line and as many quantities as product ids.
func validarPedido(productoIDs []uint, cantidades []int) error {
	if len(productoIDs) == 0 {
		return ErrEmptyOrder
	}
	if len(productoIDs) != len(cantidades) {
		return fmt.Errorf("%w: %d productos y %d cantidades", ErrEmptyOrder, len(productoIDs), len(cantidades))
	}
	return nil
}

// validarLinea checks one resolved line: quantity first, then the product's
// active flag.
func validarLinea(p *model.Producto, cantidad int) error {
	if cantidad <= 0 {
		return fmt.Errorf("%w: producto %d cantidad %d", ErrInvalidQuantity, p.ID, cantidad)
	}
	if !p.Activo {
		return fmt.Errorf("%w: %s", ErrInactiveProduct, p.Nombre)
	}
	return nil
}
