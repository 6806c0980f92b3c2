package handler

import (
	"net/http"

	"tpv/internal/apierror"
	"tpv/internal/dto"
	"tpv/internal/middleware"
	"tpv/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Liquida un pedido contra el servicio abierto: congela precios, calcula el total y recalcula los agregados del servicio en la misma transacción.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Pedido"
// @Success      201  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "No hay servicio abierto"
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), claims.UserID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerVenta godoc
// @Summary      Detalle de una venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarVenta godoc
// @Summary      Eliminar venta
// @Description  Borra la venta con sus detalles y recalcula los agregados de su servicio.
// @Tags         ventas
// @Security     BearerAuth
// @Param        id   path int true "ID de la venta"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) EliminarVenta(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Lista paginada de ventas, opcionalmente de un servicio.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        servicio_id query int false "ID del servicio"
// @Param        page        query int false "Página (default 1)"
// @Param        limit       query int false "Registros por página (default 50)"
// @Success      200 {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte godoc
// @Summary      Reporte de ventas
// @Description  Productos más vendidos, clientes con más compras y servicios con más tickets.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ReporteVentasResponse
// @Router       /v1/reportes/ventas [get]
func (h *VentasHandler) Reporte(c *gin.Context) {
	resp, err := h.svc.Reporte(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
