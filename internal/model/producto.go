package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a sellable catalog item. Inactive products stay referenced by
// historical detalles but cannot appear on new sales.
type Producto struct {
	ID          uint            `gorm:"primaryKey"`
	Nombre      string          `gorm:"size:100;index;not null"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CategoriaID *uint           `gorm:"index"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:SET NULL"`
}

func (Producto) TableName() string { return "productos" }
