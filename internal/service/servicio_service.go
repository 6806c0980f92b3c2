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

// ServicioService manages the lifecycle of business sessions.
type ServicioService interface {
	Abrir(ctx context.Context, req dto.AbrirServicioRequest) (*dto.AbrirServicioResponse, error)
	Cerrar(ctx context.Context, id uint) (*dto.ServicioResponse, error)
	ObtenerAbierto(ctx context.Context) (*dto.ServicioResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ServicioResponse, error)
	Listar(ctx context.Context, filter dto.ServicioFilter) (*dto.ServicioListResponse, error)
	Renombrar(ctx context.Context, id uint, nombre string) (*dto.ServicioResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type servicioService struct {
	repo    repository.ServicioRepository
	ventas  repository.VentaRepository
	eventos infra.EventPublisher
	now     func() time.Time
}

func NewServicioService(
	repo repository.ServicioRepository,
	ventas repository.VentaRepository,
	eventos infra.EventPublisher,
) ServicioService {
	if eventos == nil {
		eventos = infra.NopPublisher{}
	}
	return &servicioService{repo: repo, ventas: ventas, eventos: eventos, now: time.Now}
}

func servicioToResponse(s *model.Servicio) *dto.ServicioResponse {
	return &dto.ServicioResponse{
		ID:              s.ID,
		Nombre:          s.Nombre,
		FechaInicio:     s.FechaInicio,
		FechaFin:        s.FechaFin,
		Estado:          s.Estado,
		CantidadTickets: s.CantidadTickets,
		TotalIngresos:   s.TotalIngresos,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// One transaction:
//   1. lock the currently open session (FOR UPDATE) if any
//   2. close it: estado cerrado, fecha_fin now, aggregates refreshed
//   3. insert the new open session
// The partial unique index rejects a concurrent opener that slipped past
// the lock; that surfaces as ErrServicioConcurrente.

func (s *servicioService) Abrir(ctx context.Context, req dto.AbrirServicioRequest) (*dto.AbrirServicioResponse, error) {
	inicio := s.now()
	if req.FechaInicio != nil {
		inicio = *req.FechaInicio
	}

	var nuevo model.Servicio
	var cerrado *model.Servicio
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		prev, err := s.repo.LockAbierto(ctx, tx, true)
		switch {
		case err == nil:
			if err := s.cerrarTx(ctx, tx, prev); err != nil {
				return err
			}
			cerrado = prev
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		nuevo = model.Servicio{
			Nombre:        req.Nombre,
			FechaInicio:   inicio,
			Estado:        model.EstadoAbierto,
			TotalIngresos: decimal.Zero,
		}
		return s.repo.Create(ctx, tx, &nuevo)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrServicioConcurrente
		}
		return nil, err
	}

	metrics.ServiciosAbiertos.Inc()
	resp := &dto.AbrirServicioResponse{Servicio: *servicioToResponse(&nuevo)}
	ev := log.Info().Uint("servicio_id", nuevo.ID).Str("nombre", nuevo.Nombre)
	if cerrado != nil {
		metrics.ServiciosCerradosForzados.Inc()
		resp.ServicioCerrado = servicioToResponse(cerrado)
		ev = ev.Uint("servicio_cerrado", cerrado.ID)
		s.publicar(ctx, infra.EventoServicioCerrado, resp.ServicioCerrado)
	}
	ev.Msg("servicio abierto")
	s.publicar(ctx, infra.EventoServicioAbierto, resp)
	return resp, nil
}

// cerrarTx closes sv inside tx and refreshes sv in place. An existing
// fecha_fin is kept.
func (s *servicioService) cerrarTx(ctx context.Context, tx *gorm.DB, sv *model.Servicio) error {
	fin := s.now()
	if sv.FechaFin != nil {
		fin = *sv.FechaFin
	}
	if err := s.repo.Cerrar(ctx, tx, sv.ID, fin); err != nil {
		return err
	}
	agg, err := RecalcularAgregados(ctx, tx, s.repo, s.ventas, sv.ID)
	if err != nil {
		return err
	}
	sv.Estado = model.EstadoCerrado
	sv.FechaFin = &fin
	sv.CantidadTickets = int(agg.Cantidad)
	sv.TotalIngresos = agg.Total
	return nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *servicioService) Cerrar(ctx context.Context, id uint) (*dto.ServicioResponse, error) {
	var sv *model.Servicio
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sv, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return notFound(err, "servicio %d", id)
		}
		return s.cerrarTx(ctx, tx, sv)
	})
	if err != nil {
		return nil, err
	}

	resp := servicioToResponse(sv)
	log.Info().
		Uint("servicio_id", sv.ID).
		Int("cantidad_tickets", sv.CantidadTickets).
		Str("total_ingresos", sv.TotalIngresos.StringFixed(2)).
		Msg("servicio cerrado")
	s.publicar(ctx, infra.EventoServicioCerrado, resp)
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *servicioService) ObtenerAbierto(ctx context.Context) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindAbierto(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return servicioToResponse(sv), nil
}

func (s *servicioService) ObtenerPorID(ctx context.Context, id uint) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "servicio %d", id)
	}
	return servicioToResponse(sv), nil
}

func (s *servicioService) Listar(ctx context.Context, filter dto.ServicioFilter) (*dto.ServicioListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	list, total, err := s.repo.List(ctx, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ServicioResponse, 0, len(list))
	for i := range list {
		data = append(data, *servicioToResponse(&list[i]))
	}
	return &dto.ServicioListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Edición ───────────────────────────────────────────────────────────────────

func (s *servicioService) Renombrar(ctx context.Context, id uint, nombre string) (*dto.ServicioResponse, error) {
	if err := s.repo.Renombrar(ctx, id, nombre); err != nil {
		return nil, notFound(err, "servicio %d", id)
	}
	return s.ObtenerPorID(ctx, id)
}

// Eliminar removes the session together with its sales and their detalles.
func (s *servicioService) Eliminar(ctx context.Context, id uint) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return notFound(err, "servicio %d", id)
		}
		if err := s.ventas.DeleteByServicio(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Uint("servicio_id", id).Msg("servicio eliminado")
	return nil
}

func (s *servicioService) publicar(ctx context.Context, tipo string, datos interface{}) {
	if err := s.eventos.Publish(ctx, tipo, datos); err != nil {
		log.Warn().Err(err).Str("evento", tipo).Msg("no se pudo publicar el evento")
	}
}
