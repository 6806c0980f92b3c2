package service

import (
	"context"

	"tpv/internal/repository"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// RecalcularAgregados recomputes the session's ticket count and revenue
// from the sales currently referencing it and persists only those two
// columns. Callers pass their transaction so the aggregates commit (or roll
// back) together with the sale writes that changed them.
func RecalcularAgregados(
	ctx context.Context,
	tx *gorm.DB,
	servicios repository.ServicioRepository,
	ventas repository.VentaRepository,
	servicioID uint,
) (repository.Agregados, error) {
	agg, err := ventas.AgregadosServicio(ctx, tx, servicioID)
	if err != nil {
		return repository.Agregados{}, err
	}
	if err := servicios.UpdateAgregados(ctx, tx, servicioID, int(agg.Cantidad), agg.Total); err != nil {
		return repository.Agregados{}, err
	}
	return agg, nil
}
