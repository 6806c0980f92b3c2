package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EstadoAbierto = "abierto"
	EstadoCerrado = "cerrado"
)

// Servicio is a business session (shift) that groups sales.
// At most one row may have Estado = "abierto"; the partial unique index
// idx_servicios_un_abierto enforces it at the store level.
type Servicio struct {
	ID          uint       `gorm:"primaryKey"`
	Nombre      string     `gorm:"size:100;not null"`
	FechaInicio time.Time  `gorm:"not null"`
	FechaFin    *time.Time
	Estado      string `gorm:"type:varchar(10);not null;index"`
	// Derived from the sales of the session; written only by the aggregate recompute.
	CantidadTickets int             `gorm:"not null;default:0"`
	TotalIngresos   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Servicio) TableName() string { return "servicios" }

func (s *Servicio) Abierto() bool { return s.Estado == EstadoAbierto }
