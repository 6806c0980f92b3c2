package model

import "time"

const (
	RolAdministrador = "administrador"
	RolVendedor      = "vendedor"
)

// Usuario stores staff accounts with role-based access.
// Rol: "administrador" | "vendedor"
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Nombre       string `gorm:"size:150;not null"`
	Apellido     string `gorm:"size:150"`
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(15);not null;default:'vendedor'"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
