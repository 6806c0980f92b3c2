package service

import (
	"context"
	"errors"
	"time"

	"tpv/internal/dto"
	"tpv/internal/infra"
	"tpv/internal/metrics"
	"tpv/internal/model"
	"tpv/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ColaTickets enqueues the asynchronous receipt for a settled sale.
type ColaTickets interface {
	EnqueueTicket(ctx context.Context, ventaID uint) error
}

type VentaService interface {
	Registrar(ctx context.Context, usuarioID uint, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	Eliminar(ctx context.Context, id uint) error
	Reporte(ctx context.Context) (*dto.ReporteVentasResponse, error)
}

type ventaService struct {
	repo      repository.VentaRepository
	servicios repository.ServicioRepository
	productos repository.ProductoRepository
	clientes  repository.ClienteRepository
	cola      ColaTickets
	eventos   infra.EventPublisher
}

func NewVentaService(
	repo repository.VentaRepository,
	servicios repository.ServicioRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	cola ColaTickets,
	eventos infra.EventPublisher,
) VentaService {
	if eventos == nil {
		eventos = infra.NopPublisher{}
	}
	return &ventaService{
		repo:      repo,
		servicios: servicios,
		productos: productos,
		clientes:  clientes,
		cola:      cola,
		eventos:   eventos,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Error classification follows a fixed order:
//   1. no open session                   → ErrNoOpenSession
//   2. empty / mismatched order          → ErrEmptyOrder
//   3. unknown customer                  → ErrNotFound
//   4. per line, in input order:
//      unknown product → ErrNotFound, qty ≤ 0 → ErrInvalidQuantity,
//      inactive → ErrInactiveProduct
// Every line is resolved and validated inside the transaction before the
// first write; sale, detalles, total and session aggregates then commit
// together or not at all.

func (s *ventaService) Registrar(ctx context.Context, usuarioID uint, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if _, err := s.servicios.FindAbierto(ctx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.rechazar(ErrNoOpenSession)
		}
		return nil, err
	}

	if err := validarPedido(req.ProductoIDs, req.Cantidades); err != nil {
		return nil, s.rechazar(err)
	}

	var cliente *model.Cliente
	if req.IDCliente != nil {
		c, err := s.clientes.FindByID(ctx, nil, *req.IDCliente)
		if err != nil {
			return nil, s.rechazar(notFound(err, "cliente %d", *req.IDCliente))
		}
		cliente = c
	}

	var venta model.Venta
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Shared lock: a concurrent open/close of the session waits for us.
		servicio, err := s.servicios.LockAbierto(ctx, tx, false)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenSession
			}
			return err
		}

		detalles := make([]model.DetalleVenta, 0, len(req.ProductoIDs))
		total := decimal.Zero
		for i, pid := range req.ProductoIDs {
			p, err := s.productos.FindByID(ctx, tx, pid)
			if err != nil {
				return notFound(err, "producto %d", pid)
			}
			if err := validarLinea(p, req.Cantidades[i]); err != nil {
				return err
			}
			subtotal := p.Precio.Mul(decimal.NewFromInt(int64(req.Cantidades[i])))
			detalles = append(detalles, model.DetalleVenta{
				ProductoID:     p.ID,
				Cantidad:       req.Cantidades[i],
				PrecioUnitario: p.Precio,
				Subtotal:       subtotal,
				Producto:       p,
			})
			total = total.Add(subtotal)
		}

		venta = model.Venta{
			Fecha:      time.Now(),
			Total:      decimal.Zero,
			UsuarioID:  usuarioID,
			ClienteID:  req.IDCliente,
			ServicioID: servicio.ID,
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}
		for i := range detalles {
			detalles[i].VentaID = venta.ID
		}
		if err := s.repo.CreateDetalles(ctx, tx, detalles); err != nil {
			return err
		}
		if err := s.repo.UpdateTotal(ctx, tx, venta.ID, total); err != nil {
			return err
		}
		venta.Total = total
		venta.Detalles = detalles

		_, err = RecalcularAgregados(ctx, tx, s.servicios, s.repo, servicio.ID)
		return err
	})
	if err != nil {
		return nil, s.rechazar(err)
	}

	metrics.VentasRegistradas.Inc()
	metrics.ImporteVentas.Add(venta.Total.InexactFloat64())
	log.Info().
		Uint("venta_id", venta.ID).
		Uint("servicio_id", venta.ServicioID).
		Uint("usuario_id", usuarioID).
		Int("lineas", len(venta.Detalles)).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")

	resp := ventaToResponse(&venta)
	if err := s.eventos.Publish(ctx, infra.EventoVentaRegistrada, resp); err != nil {
		log.Warn().Err(err).Uint("venta_id", venta.ID).Msg("no se pudo publicar venta.registrada")
	}
	if cliente != nil && cliente.EmailContacto != nil && *cliente.EmailContacto != "" && s.cola != nil {
		if err := s.cola.EnqueueTicket(ctx, venta.ID); err != nil {
			log.Warn().Err(err).Uint("venta_id", venta.ID).Msg("no se pudo encolar el ticket")
		}
	}
	return resp, nil
}

// rechazar counts domain rejections by reason; other errors pass through.
func (s *ventaService) rechazar(err error) error {
	motivo := ""
	switch {
	case errors.Is(err, ErrNoOpenSession):
		motivo = "sin_servicio"
	case errors.Is(err, ErrEmptyOrder):
		motivo = "pedido_vacio"
	case errors.Is(err, ErrInvalidQuantity):
		motivo = "cantidad_invalida"
	case errors.Is(err, ErrInactiveProduct):
		motivo = "producto_inactivo"
	case errors.Is(err, ErrNotFound):
		motivo = "no_encontrado"
	}
	if motivo != "" {
		metrics.VentasRechazadas.WithLabelValues(motivo).Inc()
	}
	return err
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

// Eliminar deletes the sale and its detalles, then recomputes the session
// the sale belonged to.
func (s *ventaService) Eliminar(ctx context.Context, id uint) error {
	var servicioID uint
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return notFound(err, "venta %d", id)
		}
		servicioID = v.ServicioID
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return notFound(err, "venta %d", id)
		}
		_, err = RecalcularAgregados(ctx, tx, s.servicios, s.repo, servicioID)
		return err
	})
	if err != nil {
		return err
	}

	log.Info().Uint("venta_id", id).Uint("servicio_id", servicioID).Msg("venta eliminada")
	datos := map[string]uint{"venta_id": id, "servicio_id": servicioID}
	if err := s.eventos.Publish(ctx, infra.EventoVentaEliminada, datos); err != nil {
		log.Warn().Err(err).Uint("venta_id", id).Msg("no se pudo publicar venta.eliminada")
	}
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "venta %d", id)
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Reporte returns the rankings of the sales dashboard: top 6 active
// products by units, top 5 customers and top 5 sessions by sale count.
func (s *ventaService) Reporte(ctx context.Context) (*dto.ReporteVentasResponse, error) {
	productos, err := s.repo.TopProductos(ctx, 6)
	if err != nil {
		return nil, err
	}
	clientes, err := s.repo.TopClientes(ctx, 5)
	if err != nil {
		return nil, err
	}
	servicios, err := s.repo.TopServicios(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &dto.ReporteVentasResponse{
		ProductosMasVendidos: nonNil(productos),
		ClientesTop:          nonNil(clientes),
		ServiciosTop:         nonNil(servicios),
	}, nil
}

func nonNil(items []dto.RankingItem) []dto.RankingItem {
	if items == nil {
		return []dto.RankingItem{}
	}
	return items
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID,
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	return &dto.VentaResponse{
		VentaID:    v.ID,
		Fecha:      v.Fecha.Format(time.RFC3339),
		ServicioID: v.ServicioID,
		UsuarioID:  v.UsuarioID,
		ClienteID:  v.ClienteID,
		Total:      v.Total,
		Detalles:   detalles,
	}
}
