package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"tpv/internal/apierror"
	"tpv/internal/middleware"
	"tpv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads the :id path parameter. Writes 400 and returns false when it
// is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return 0, false
	}
	return uint(id), true
}

// responderError maps service errors onto HTTP statuses and stable codes.
// Anything unknown is logged and answered with a generic 500.
func responderError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, ""
	switch {
	case errors.Is(err, service.ErrNoOpenSession):
		status, code = http.StatusConflict, "sin_servicio_abierto"
	case errors.Is(err, service.ErrEmptyOrder):
		status, code = http.StatusUnprocessableEntity, "pedido_vacio"
	case errors.Is(err, service.ErrInvalidQuantity):
		status, code = http.StatusUnprocessableEntity, "cantidad_invalida"
	case errors.Is(err, service.ErrInactiveProduct):
		status, code = http.StatusUnprocessableEntity, "producto_inactivo"
	case errors.Is(err, service.ErrInvalidPrecio):
		status, code = http.StatusUnprocessableEntity, "precio_invalido"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "no_encontrado"
	case errors.Is(err, service.ErrServicioConcurrente):
		status, code = http.StatusConflict, "servicio_concurrente"
	case errors.Is(err, service.ErrDuplicado):
		status, code = http.StatusConflict, "duplicado"
	case errors.Is(err, service.ErrCredenciales):
		status, code = http.StatusUnauthorized, "credenciales"
	}

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("unhandled service error")
		c.JSON(status, apierror.Interno())
		return
	}
	c.JSON(status, apierror.WithCode(code, err.Error()))
}
