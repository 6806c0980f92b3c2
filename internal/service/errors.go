package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Domain errors. Services wrap them with detail via %w; the HTTP layer
// classifies with errors.Is.
var (
	ErrNoOpenSession   = errors.New("no hay ningún servicio abierto")
	ErrEmptyOrder      = errors.New("el pedido no tiene líneas válidas")
	ErrInvalidQuantity = errors.New("la cantidad debe ser mayor que cero")
	ErrInactiveProduct = errors.New("el producto está inactivo")
	ErrNotFound        = errors.New("no encontrado")

	// ErrServicioConcurrente means another request opened a session at the
	// same time; the store rejected the second open.
	ErrServicioConcurrente = errors.New("otro servicio se abrió concurrentemente")
	ErrDuplicado           = errors.New("ya existe un registro con esos datos")
	ErrInvalidPrecio       = errors.New("el precio debe ser mayor que cero")
	ErrCredenciales        = errors.New("credenciales invalidas")
)

// notFound maps gorm.ErrRecordNotFound to ErrNotFound with a label;
// any other error is returned unchanged.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}

func duplicado(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicado
	}
	return err
}
