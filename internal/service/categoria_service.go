package service

import (
	"context"
	"errors"

	"tpv/internal/dto"
	"tpv/internal/model"
	"tpv/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type categoriaService struct {
	repo      repository.CategoriaRepository
	productos repository.ProductoRepository
}

func NewCategoriaService(repo repository.CategoriaRepository, productos repository.ProductoRepository) CategoriaService {
	return &categoriaService{repo: repo, productos: productos}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre, Activo: c.Activo}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	existing, err := s.repo.ObtenerPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, ErrDuplicado
	}

	c := &model.Categoria{Nombre: req.Nombre, Activo: true}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, incluirInactivas)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uint, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, nil, id)
	if err != nil {
		return dto.CategoriaResponse{}, notFound(err, "categoría %d", id)
	}

	if req.Nombre != nil && *req.Nombre != c.Nombre {
		existing, err := s.repo.ObtenerPorNombre(ctx, *req.Nombre)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, err
		}
		if existing != nil && existing.ID != id {
			return dto.CategoriaResponse{}, ErrDuplicado
		}
		c.Nombre = *req.Nombre
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

// Eliminar retires the category. In the same transaction its products lose
// the category reference and are forced inactive, so they can no longer be
// sold until an administrator reactivates them.
func (s *categoriaService) Eliminar(ctx context.Context, id uint) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.ObtenerPorID(ctx, tx, id); err != nil {
			return notFound(err, "categoría %d", id)
		}
		if err := s.productos.DesvincularCategoria(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Desactivar(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Uint("categoria_id", id).Msg("categoría eliminada y productos desactivados")
	return nil
}
