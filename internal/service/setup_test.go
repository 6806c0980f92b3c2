package service

import (
	"context"
	"sync"
	"testing"

	"tpv/internal/dto"
	"tpv/internal/infra"
	"tpv/internal/model"
	"tpv/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubCola struct {
	mu  sync.Mutex
	ids []uint
}

func (c *stubCola) EnqueueTicket(_ context.Context, ventaID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, ventaID)
	return nil
}

var _ ColaTickets = (*stubCola)(nil)

type stubPublisher struct {
	mu    sync.Mutex
	tipos []string
}

func (p *stubPublisher) Publish(_ context.Context, tipo string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tipos = append(p.tipos, tipo)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

var _ infra.EventPublisher = (*stubPublisher)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture wires the real repositories over an isolated in-memory SQLite
// database.
type fixture struct {
	db *gorm.DB

	servicios  repository.ServicioRepository
	ventas     repository.VentaRepository
	productos  repository.ProductoRepository
	clientes   repository.ClienteRepository
	categorias repository.CategoriaRepository

	servicioSvc  ServicioService
	ventaSvc     VentaService
	categoriaSvc CategoriaService
	productoSvc  ProductoService
	clienteSvc   ClienteService

	cola      *stubCola
	eventos   *stubPublisher
	usuarioID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := infra.NewDatabase("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:         db,
		servicios:  repository.NewServicioRepository(db),
		ventas:     repository.NewVentaRepository(db),
		productos:  repository.NewProductoRepository(db),
		clientes:   repository.NewClienteRepository(db),
		categorias: repository.NewCategoriaRepository(db),
		cola:       &stubCola{},
		eventos:    &stubPublisher{},
	}
	f.servicioSvc = NewServicioService(f.servicios, f.ventas, f.eventos)
	f.ventaSvc = NewVentaService(f.ventas, f.servicios, f.productos, f.clientes, f.cola, f.eventos)
	f.categoriaSvc = NewCategoriaService(f.categorias, f.productos)
	f.productoSvc = NewProductoService(f.productos, f.categorias)
	f.clienteSvc = NewClienteService(f.clientes, f.ventas)

	u := &model.Usuario{Username: "vendedor1", Nombre: "Vendedor", PasswordHash: "x", Rol: model.RolVendedor, Activo: true}
	require.NoError(t, db.Create(u).Error)
	f.usuarioID = u.ID
	return f
}

func (f *fixture) abrir(t *testing.T, nombre string) *dto.AbrirServicioResponse {
	t.Helper()
	resp, err := f.servicioSvc.Abrir(context.Background(), dto.AbrirServicioRequest{Nombre: nombre})
	require.NoError(t, err)
	return resp
}

func (f *fixture) producto(t *testing.T, nombre, precio string, activo bool) *model.Producto {
	t.Helper()
	p := &model.Producto{Nombre: nombre, Precio: decimal.RequireFromString(precio), Activo: true}
	require.NoError(t, f.productos.Create(context.Background(), p))
	if !activo {
		require.NoError(t, f.productos.SetActivo(context.Background(), p.ID, false))
		p.Activo = false
	}
	return p
}

func (f *fixture) cliente(t *testing.T, empresa string, email *string) *model.Cliente {
	t.Helper()
	c := &model.Cliente{NombreEmpresa: &empresa, EmailContacto: email}
	require.NoError(t, f.clientes.Create(context.Background(), c))
	return c
}

func (f *fixture) vender(t *testing.T, clienteID *uint, ids []uint, cantidades []int) *dto.VentaResponse {
	t.Helper()
	resp, err := f.ventaSvc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		IDCliente:   clienteID,
		ProductoIDs: ids,
		Cantidades:  cantidades,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) servicio(t *testing.T, id uint) *model.Servicio {
	t.Helper()
	s, err := f.servicios.FindByID(context.Background(), nil, id)
	require.NoError(t, err)
	return s
}

func (f *fixture) contar(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }
