package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	ServicioID uint `form:"servicio_id"`
	Page       int  `form:"page,default=1"   validate:"min=1"`
	Limit      int  `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarVentaRequest is the settlement payload. ProductoIDs and Cantidades
// are parallel lists; their shape is checked by the service, not the binder,
// so an empty or mismatched order surfaces as an empty-order error.
type RegistrarVentaRequest struct {
	IDCliente   *uint  `json:"id_cliente"`
	ProductoIDs []uint `json:"producto_ids"`
	Cantidades  []int  `json:"cantidades"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     uint            `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	VentaID    uint                   `json:"venta_id"`
	Fecha      string                 `json:"fecha"`
	ServicioID uint                   `json:"servicio_id"`
	UsuarioID  uint                   `json:"usuario_id"`
	ClienteID  *uint                  `json:"cliente_id"`
	Total      decimal.Decimal        `json:"total"`
	Detalles   []DetalleVentaResponse `json:"detalles"`
}

// ─── Report DTOs ─────────────────────────────────────────────────────────────

type RankingItem struct {
	Etiqueta string `json:"etiqueta"`
	Valor    int64  `json:"valor"`
}

// ReporteVentasResponse backs GET /v1/reportes/ventas.
type ReporteVentasResponse struct {
	ProductosMasVendidos []RankingItem `json:"productos_mas_vendidos"`
	ClientesTop          []RankingItem `json:"clientes_top"`
	ServiciosTop         []RankingItem `json:"servicios_top"`
}
