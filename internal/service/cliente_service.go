package service

import (
	"context"

	"tpv/internal/dto"
	"tpv/internal/model"
	"tpv/internal/repository"

	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type clienteService struct {
	repo   repository.ClienteRepository
	ventas repository.VentaRepository
}

func NewClienteService(repo repository.ClienteRepository, ventas repository.VentaRepository) ClienteService {
	return &clienteService{repo: repo, ventas: ventas}
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:               c.ID,
		NombreEmpresa:    c.NombreEmpresa,
		NombreContacto:   c.NombreContacto,
		DireccionFiscal:  c.DireccionFiscal,
		TelefonoContacto: c.TelefonoContacto,
		EmailContacto:    c.EmailContacto,
		NifCif:           c.NifCif,
		PaginaWeb:        c.PaginaWeb,
	}
}

func aplicarCliente(c *model.Cliente, req dto.ClienteRequest) {
	c.NombreEmpresa = req.NombreEmpresa
	c.NombreContacto = req.NombreContacto
	c.DireccionFiscal = req.DireccionFiscal
	c.TelefonoContacto = req.TelefonoContacto
	c.EmailContacto = req.EmailContacto
	c.NifCif = req.NifCif
	c.PaginaWeb = req.PaginaWeb
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{}
	aplicarCliente(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicado(err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uint) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "cliente %d", id)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(list))
	for i := range list {
		out = append(out, *clienteToResponse(&list[i]))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "cliente %d", id)
	}
	aplicarCliente(c, req)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, duplicado(err)
	}
	return clienteToResponse(c), nil
}

// Eliminar deletes the customer; its past sales stay, now anonymous.
func (s *clienteService) Eliminar(ctx context.Context, id uint) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.ventas.ClearCliente(ctx, tx, id); err != nil {
			return err
		}
		return notFound(s.repo.Delete(ctx, tx, id), "cliente %d", id)
	})
}
