package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AbrirServicioRequest struct {
	Nombre string `json:"nombre" validate:"required,min=1,max=100"`
	// FechaInicio defaults to now when omitted.
	FechaInicio *time.Time `json:"fecha_inicio"`
}

type RenombrarServicioRequest struct {
	Nombre string `json:"nombre" validate:"required,min=1,max=100"`
}

type ServicioFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
}

type ServicioResponse struct {
	ID              uint            `json:"id"`
	Nombre          string          `json:"nombre"`
	FechaInicio     time.Time       `json:"fecha_inicio"`
	FechaFin        *time.Time      `json:"fecha_fin"`
	Estado          string          `json:"estado"`
	CantidadTickets int             `json:"cantidad_tickets"`
	TotalIngresos   decimal.Decimal `json:"total_ingresos"`
}

// AbrirServicioResponse reports the opened session and, when one was open
// before, the session that was closed to make room for it.
type AbrirServicioResponse struct {
	Servicio        ServicioResponse  `json:"servicio"`
	ServicioCerrado *ServicioResponse `json:"servicio_cerrado"`
}

type ServicioListResponse struct {
	Data  []ServicioResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
