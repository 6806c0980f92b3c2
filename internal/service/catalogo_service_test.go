package service

import (
	"context"
	"testing"

	"tpv/internal/dto"
	"tpv/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoria_EliminarDesactivaSusProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bebidas, err := f.categoriaSvc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	require.NoError(t, err)
	zumo, err := f.productoSvc.Crear(ctx, dto.CrearProductoRequest{Nombre: "Zumo", Precio: dec("2.50"), CategoriaID: &bebidas.ID})
	require.NoError(t, err)
	pan := f.producto(t, "Pan", "1.00", true)

	require.NoError(t, f.categoriaSvc.Eliminar(ctx, bebidas.ID))

	got, err := f.productoSvc.ObtenerPorID(ctx, zumo.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)
	assert.Nil(t, got.CategoriaID)

	// Products of other categories are untouched.
	other, err := f.productoSvc.ObtenerPorID(ctx, pan.ID)
	require.NoError(t, err)
	assert.True(t, other.Activo)

	activas, err := f.categoriaSvc.Listar(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, activas)
	todas, err := f.categoriaSvc.Listar(ctx, true)
	require.NoError(t, err)
	require.Len(t, todas, 1)
	assert.False(t, todas[0].Activo)

	// The orphaned product can no longer be sold.
	f.abrir(t, "S1")
	_, err = f.ventaSvc.Registrar(ctx, f.usuarioID, dto.RegistrarVentaRequest{
		ProductoIDs: []uint{zumo.ID},
		Cantidades:  []int{1},
	})
	assert.ErrorIs(t, err, ErrInactiveProduct)
}

func TestCategoria_NombreDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.categoriaSvc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	require.NoError(t, err)
	_, err = f.categoriaSvc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "bebidas"})
	assert.ErrorIs(t, err, ErrDuplicado)
}

func TestCategoria_EliminarInexistente(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.categoriaSvc.Eliminar(context.Background(), 12), ErrNotFound)
}

func TestProducto_CategoriaInactivaRechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat, err := f.categoriaSvc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Postres"})
	require.NoError(t, err)
	require.NoError(t, f.categoriaSvc.Eliminar(ctx, cat.ID))

	_, err = f.productoSvc.Crear(ctx, dto.CrearProductoRequest{Nombre: "Flan", Precio: dec("3.00"), CategoriaID: &cat.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProducto_PrecioNoPositivo(t *testing.T) {
	f := newFixture(t)
	p := f.producto(t, "Café", "1.50", true)

	cero := dec("0")
	_, err := f.productoSvc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{Precio: &cero})
	assert.ErrorIs(t, err, ErrInvalidPrecio)
}

func TestProducto_DesactivarYReactivar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.producto(t, "Café", "1.50", true)
	f.abrir(t, "S1")

	require.NoError(t, f.productoSvc.Desactivar(ctx, p.ID))
	_, err := f.ventaSvc.Registrar(ctx, f.usuarioID, dto.RegistrarVentaRequest{ProductoIDs: []uint{p.ID}, Cantidades: []int{1}})
	assert.ErrorIs(t, err, ErrInactiveProduct)

	require.NoError(t, f.productoSvc.Reactivar(ctx, p.ID))
	f.vender(t, nil, []uint{p.ID}, []int{1})

	assert.ErrorIs(t, f.productoSvc.Desactivar(ctx, 555), ErrNotFound)
}

func TestProducto_Listar(t *testing.T) {
	f := newFixture(t)
	f.producto(t, "Café solo", "1.20", true)
	f.producto(t, "Café con leche", "1.50", true)
	f.producto(t, "Té", "1.00", false)

	activos, err := f.productoSvc.Listar(context.Background(), dto.ProductoFilter{Nombre: "café"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), activos.Total)

	todos, err := f.productoSvc.Listar(context.Background(), dto.ProductoFilter{Activo: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), todos.Total)

	inactivos, err := f.productoSvc.Listar(context.Background(), dto.ProductoFilter{Activo: "false"})
	require.NoError(t, err)
	require.Len(t, inactivos.Data, 1)
	assert.Equal(t, "Té", inactivos.Data[0].Nombre)
}

func TestCliente_EliminarDejaVentasAnonimas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.abrir(t, "S1")
	p := f.producto(t, "A", "2.00", true)
	c := f.cliente(t, "Acme", nil)

	v := f.vender(t, &c.ID, []uint{p.ID}, []int{3})
	require.NoError(t, f.clienteSvc.Eliminar(ctx, c.ID))

	got, err := f.ventaSvc.ObtenerPorID(ctx, v.VentaID)
	require.NoError(t, err)
	assert.Nil(t, got.ClienteID)
	assert.True(t, got.Total.Equal(dec("6.00")))

	sv := f.servicio(t, s1.Servicio.ID)
	assert.Equal(t, 1, sv.CantidadTickets)

	_, err = f.clienteSvc.ObtenerPorID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.clienteSvc.Eliminar(ctx, c.ID), ErrNotFound)
}

func TestCliente_NifDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nif := "B12345678"

	_, err := f.clienteSvc.Crear(ctx, dto.ClienteRequest{NombreEmpresa: strPtr("Acme"), NifCif: &nif})
	require.NoError(t, err)
	_, err = f.clienteSvc.Crear(ctx, dto.ClienteRequest{NombreEmpresa: strPtr("Otra"), NifCif: &nif})
	assert.ErrorIs(t, err, ErrDuplicado)
}

func TestCliente_Actualizar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.clienteSvc.Crear(ctx, dto.ClienteRequest{NombreEmpresa: strPtr("Acme")})
	require.NoError(t, err)

	resp, err := f.clienteSvc.Actualizar(ctx, c.ID, dto.ClienteRequest{
		NombreEmpresa: strPtr("Acme SL"),
		EmailContacto: strPtr("hola@acme.test"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme SL", *resp.NombreEmpresa)
	require.NotNil(t, resp.EmailContacto)

	list, err := f.clienteSvc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	var stored model.Cliente
	require.NoError(t, f.db.First(&stored, c.ID).Error)
	assert.Equal(t, "Acme SL", stored.Etiqueta())
}
