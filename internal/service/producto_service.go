package service

import (
	"context"
	"fmt"

	"tpv/internal/dto"
	"tpv/internal/model"
	"tpv/internal/repository"
)

// ProductoService defines the business logic contract for products.
// Price edits only affect future sales; detalles keep their frozen price.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
}

type productoService struct {
	repo       repository.ProductoRepository
	categorias repository.CategoriaRepository
}

func NewProductoService(repo repository.ProductoRepository, categorias repository.CategoriaRepository) ProductoService {
	return &productoService{repo: repo, categorias: categorias}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Precio:      p.Precio,
		CategoriaID: p.CategoriaID,
		Activo:      p.Activo,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := s.checkCategoria(ctx, req.CategoriaID); err != nil {
		return nil, err
	}
	p := &model.Producto{
		Nombre:      req.Nombre,
		Precio:      req.Precio.Round(2),
		CategoriaID: req.CategoriaID,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "producto %d", id)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(list))
	for i := range list {
		data = append(data, *productoToResponse(&list[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "producto %d", id)
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, ErrInvalidPrecio
		}
		p.Precio = req.Precio.Round(2)
	}
	if req.CategoriaID != nil {
		if err := s.checkCategoria(ctx, req.CategoriaID); err != nil {
			return nil, err
		}
		p.CategoriaID = req.CategoriaID
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uint) error {
	return notFound(s.repo.SetActivo(ctx, id, false), "producto %d", id)
}

func (s *productoService) Reactivar(ctx context.Context, id uint) error {
	return notFound(s.repo.SetActivo(ctx, id, true), "producto %d", id)
}

// checkCategoria requires the referenced category to exist and be active.
func (s *productoService) checkCategoria(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	c, err := s.categorias.ObtenerPorID(ctx, nil, *id)
	if err != nil {
		return notFound(err, "categoría %d", *id)
	}
	if !c.Activo {
		return fmt.Errorf("%w: categoría %d inactiva", ErrNotFound, *id)
	}
	return nil
}
