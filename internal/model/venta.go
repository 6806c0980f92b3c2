package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta is one settled transaction. Total always equals the sum of its
// detalles' subtotals once the settling transaction commits.
type Venta struct {
	ID         uint            `gorm:"primaryKey"`
	Fecha      time.Time       `gorm:"not null;autoCreateTime"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UsuarioID  uint            `gorm:"not null;index"`
	ClienteID  *uint           `gorm:"index"`
	ServicioID uint            `gorm:"not null;index"`

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID;constraint:OnDelete:SET NULL"`
	Servicio *Servicio      `gorm:"foreignKey:ServicioID;constraint:OnDelete:CASCADE"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is a line of a Venta. PrecioUnitario is copied from the
// product at settlement and never follows later price changes.
type DetalleVenta struct {
	ID             uint            `gorm:"primaryKey"`
	VentaID        uint            `gorm:"not null;index"`
	ProductoID     uint            `gorm:"not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }
