package repository

import (
	"context"

	"tpv/internal/dto"
	"tpv/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Agregados is the sale count and exact revenue of one session.
type Agregados struct {
	Cantidad int64
	Total    decimal.Decimal
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	CreateDetalles(ctx context.Context, tx *gorm.DB, detalles []model.DetalleVenta) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, id uint, total decimal.Decimal) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// Delete removes the detalles of the sale and then the sale itself.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteByServicio(ctx context.Context, tx *gorm.DB, servicioID uint) error
	ClearCliente(ctx context.Context, tx *gorm.DB, clienteID uint) error
	AgregadosServicio(ctx context.Context, tx *gorm.DB, servicioID uint) (Agregados, error)

	TopProductos(ctx context.Context, limit int) ([]dto.RankingItem, error)
	TopClientes(ctx context.Context, limit int) ([]dto.RankingItem, error)
	TopServicios(ctx context.Context, limit int) ([]dto.RankingItem, error)

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *ventaRepo) CreateDetalles(ctx context.Context, tx *gorm.DB, detalles []model.DetalleVenta) error {
	if len(detalles) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(&detalles).Error
}

func (r *ventaRepo) UpdateTotal(ctx context.Context, tx *gorm.DB, id uint, total decimal.Decimal) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("total", total).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error) {
	var v model.Venta
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Detalles", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Detalles.Producto").
		Preload("Cliente").
		First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.ServicioID != 0 {
		q = q.Where("servicio_id = ?", filter.ServicioID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles.Producto").
		Order("fecha DESC").Order("id DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("venta_id = ?", id).Delete(&model.DetalleVenta{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Venta{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ventaRepo) DeleteByServicio(ctx context.Context, tx *gorm.DB, servicioID uint) error {
	db := conn(r.db, tx).WithContext(ctx)
	ids := db.Model(&model.Venta{}).Select("id").Where("servicio_id = ?", servicioID)
	if err := db.Where("venta_id IN (?)", ids).Delete(&model.DetalleVenta{}).Error; err != nil {
		return err
	}
	return db.Where("servicio_id = ?", servicioID).Delete(&model.Venta{}).Error
}

func (r *ventaRepo) ClearCliente(ctx context.Context, tx *gorm.DB, clienteID uint) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Venta{}).
		Where("cliente_id = ?", clienteID).
		Update("cliente_id", nil).Error
}

func (r *ventaRepo) AgregadosServicio(ctx context.Context, tx *gorm.DB, servicioID uint) (Agregados, error) {
	// Totals are summed here, not with SUM(): SQLite keeps decimal columns as
	// REAL and its SUM drifts off the exact cents.
	var totales []decimal.Decimal
	err := conn(r.db, tx).WithContext(ctx).Model(&model.Venta{}).
		Where("servicio_id = ?", servicioID).
		Pluck("total", &totales).Error
	if err != nil {
		return Agregados{}, err
	}
	agg := Agregados{Cantidad: int64(len(totales)), Total: decimal.Zero}
	for _, t := range totales {
		agg.Total = agg.Total.Add(t)
	}
	return agg, nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (r *ventaRepo) TopProductos(ctx context.Context, limit int) ([]dto.RankingItem, error) {
	var out []dto.RankingItem
	err := r.db.WithContext(ctx).Table("detalles_venta AS d").
		Select("p.nombre AS etiqueta, SUM(d.cantidad) AS valor").
		Joins("JOIN productos p ON p.id = d.producto_id").
		Where("p.activo = ?", true).
		Group("p.id, p.nombre").
		Order("valor DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *ventaRepo) TopClientes(ctx context.Context, limit int) ([]dto.RankingItem, error) {
	var out []dto.RankingItem
	err := r.db.WithContext(ctx).Table("ventas AS v").
		Select("COALESCE(c.nombre_empresa, c.nombre_contacto, '') AS etiqueta, COUNT(v.id) AS valor").
		Joins("JOIN clientes c ON c.id = v.cliente_id").
		Group("c.id, c.nombre_empresa, c.nombre_contacto").
		Order("valor DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *ventaRepo) TopServicios(ctx context.Context, limit int) ([]dto.RankingItem, error) {
	var out []dto.RankingItem
	err := r.db.WithContext(ctx).Table("ventas AS v").
		Select("s.nombre AS etiqueta, COUNT(v.id) AS valor").
		Joins("JOIN servicios s ON s.id = v.servicio_id").
		Group("s.id, s.nombre").
		Order("valor DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
