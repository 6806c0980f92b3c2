package repository

import (
	"context"
	"strings"

	"tpv/internal/dto"
	"tpv/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SetActivo(ctx context.Context, id uint, activo bool) error
	// DesvincularCategoria clears categoria_id on every product of the
	// category and forces those products inactive.
	DesvincularCategoria(ctx context.Context, tx *gorm.DB, categoriaID uint) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Categoria").Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Producto, error) {
	var p model.Producto
	if err := conn(r.db, tx).WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = ?", false)
	case "all":
	default:
		q = q.Where("activo = ?", true)
	}
	if filter.Nombre != "" {
		q = q.Where("LOWER(nombre) LIKE ?", "%"+strings.ToLower(filter.Nombre)+"%")
	}
	if filter.CategoriaID != 0 {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset(filter.Page, filter.Limit)).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Categoria").Save(p).Error
}

func (r *productoRepo) SetActivo(ctx context.Context, id uint, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) DesvincularCategoria(ctx context.Context, tx *gorm.DB, categoriaID uint) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Producto{}).
		Where("categoria_id = ?", categoriaID).
		Updates(map[string]interface{}{
			"categoria_id": nil,
			"activo":       false,
		}).Error
}
