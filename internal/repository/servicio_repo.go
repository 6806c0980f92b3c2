package repository

import (
	"context"
	"time"

	"tpv/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServicioRepository is the data access contract for business sessions.
// Methods taking a tx run inside the caller's transaction when tx != nil.
type ServicioRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Servicio) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Servicio, error)
	FindAbierto(ctx context.Context) (*model.Servicio, error)
	// LockAbierto reads the open session with a row lock: FOR UPDATE when
	// exclusive, FOR SHARE otherwise. SQLite ignores the locking clause.
	LockAbierto(ctx context.Context, tx *gorm.DB, exclusive bool) (*model.Servicio, error)
	Cerrar(ctx context.Context, tx *gorm.DB, id uint, fechaFin time.Time) error
	UpdateAgregados(ctx context.Context, tx *gorm.DB, id uint, cantidad int, total decimal.Decimal) error
	Renombrar(ctx context.Context, id uint, nombre string) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, page, limit int) ([]model.Servicio, int64, error)
	DB() *gorm.DB
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) DB() *gorm.DB { return r.db }

func (r *servicioRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Servicio) error {
	return conn(r.db, tx).WithContext(ctx).Create(s).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Servicio, error) {
	var s model.Servicio
	if err := conn(r.db, tx).WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *servicioRepo) FindAbierto(ctx context.Context) (*model.Servicio, error) {
	var s model.Servicio
	err := r.db.WithContext(ctx).Where("estado = ?", model.EstadoAbierto).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *servicioRepo) LockAbierto(ctx context.Context, tx *gorm.DB, exclusive bool) (*model.Servicio, error) {
	strength := clause.LockingStrengthShare
	if exclusive {
		strength = clause.LockingStrengthUpdate
	}
	var s model.Servicio
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Where("estado = ?", model.EstadoAbierto).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *servicioRepo) Cerrar(ctx context.Context, tx *gorm.DB, id uint, fechaFin time.Time) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Servicio{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":    model.EstadoCerrado,
			"fecha_fin": fechaFin,
		}).Error
}

// UpdateAgregados writes only the two derived columns; nothing else on the
// row is touched, so a concurrent rename or close is never overwritten.
func (r *servicioRepo) UpdateAgregados(ctx context.Context, tx *gorm.DB, id uint, cantidad int, total decimal.Decimal) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Servicio{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"cantidad_tickets": cantidad,
			"total_ingresos":   total,
		}).Error
}

func (r *servicioRepo) Renombrar(ctx context.Context, id uint, nombre string) error {
	res := r.db.WithContext(ctx).Model(&model.Servicio{}).Where("id = ?", id).Update("nombre", nombre)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *servicioRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return conn(r.db, tx).WithContext(ctx).Delete(&model.Servicio{}, id).Error
}

func (r *servicioRepo) List(ctx context.Context, page, limit int) ([]model.Servicio, int64, error) {
	var list []model.Servicio
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Servicio{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha_inicio DESC").Order("id DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&list).Error
	return list, total, err
}
