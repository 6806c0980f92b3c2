package model

import "time"

// Cliente is an optional counterparty of a Venta.
type Cliente struct {
	ID               uint    `gorm:"primaryKey"`
	NombreEmpresa    *string `gorm:"size:255"`
	NombreContacto   *string `gorm:"size:100"`
	DireccionFiscal  *string `gorm:"size:255"`
	TelefonoContacto *string `gorm:"size:15"`
	EmailContacto    *string
	NifCif           *string `gorm:"size:20;uniqueIndex"`
	PaginaWeb        *string `gorm:"size:200"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Cliente) TableName() string { return "clientes" }

// Etiqueta returns the best human-readable name of the customer.
func (c *Cliente) Etiqueta() string {
	if c.NombreEmpresa != nil && *c.NombreEmpresa != "" {
		return *c.NombreEmpresa
	}
	if c.NombreContacto != nil {
		return *c.NombreContacto
	}
	return ""
}
