package handler

import (
	"net/http"

	"tpv/internal/dto"
	"tpv/internal/service"

	"github.com/gin-gonic/gin"
)

type ServiciosHandler struct{ svc service.ServicioService }

func NewServiciosHandler(svc service.ServicioService) *ServiciosHandler {
	return &ServiciosHandler{svc: svc}
}

// Abrir godoc
// @Summary      Abrir servicio
// @Description  Abre un servicio nuevo. Si había otro abierto se cierra primero y se devuelve en servicio_cerrado.
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirServicioRequest true "Servicio"
// @Success      201  {object} dto.AbrirServicioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/servicios [post]
func (h *ServiciosHandler) Abrir(c *gin.Context) {
	var req dto.AbrirServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar servicio
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID del servicio"
// @Success      200 {object} dto.ServicioResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/servicios/{id}/cerrar [post]
func (h *ServiciosHandler) Cerrar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerAbierto godoc
// @Summary      Servicio abierto
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ServicioResponse
// @Failure      409 {object} apierror.APIError "No hay servicio abierto"
// @Router       /v1/servicios/abierto [get]
func (h *ServiciosHandler) ObtenerAbierto(c *gin.Context) {
	resp, err := h.svc.ObtenerAbierto(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) ObtenerPorID(c *gin.Context) {
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

func (h *ServiciosHandler) Listar(c *gin.Context) {
	var filter dto.ServicioFilter
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

func (h *ServiciosHandler) Renombrar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RenombrarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Renombrar(c.Request.Context(), id, req.Nombre)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar servicio
// @Description  Borra el servicio junto con todas sus ventas.
// @Tags         servicios
// @Security     BearerAuth
// @Param        id path int true "ID del servicio"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/servicios/{id} [delete]
func (h *ServiciosHandler) Eliminar(c *gin.Context) {
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
