package model

import "time"

// Categoria groups products. Removal is logical (Activo=false).
type Categoria struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"size:100;not null"`
	Activo    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
