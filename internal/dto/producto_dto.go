package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=100"`
	Precio      decimal.Decimal `json:"precio"       validate:"required,gt=0"`
	CategoriaID *uint           `json:"categoria_id"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=100"`
	Precio      *decimal.Decimal `json:"precio"`
	CategoriaID *uint            `json:"categoria_id"`
}

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID uint   `form:"categoria_id"`
	Activo      string `form:"activo,default=true"` // true | false | all
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type ProductoResponse struct {
	ID          uint            `json:"id"`
	Nombre      string          `json:"nombre"`
	Precio      decimal.Decimal `json:"precio"`
	CategoriaID *uint           `json:"categoria_id"`
	Activo      bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
