package infra

import (
	"fmt"

	"tpv/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection for the given driver ("postgres" or
// "sqlite"), migrates every table and then applies the idempotent SQL
// patches GORM cannot express (the partial unique index on open sessions).
//
// TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey regardless of the dialect.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// A single connection serialises writers; in-memory databases also
		// vanish when their last connection closes.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Categoria{},
		&model.Producto{},
		&model.Servicio{},
		&model.Venta{},
		&model.DetalleVenta{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot handle on its own. The syntax is shared by PostgreSQL and SQLite.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// at most one open session
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_servicios_un_abierto
		    ON servicios (estado) WHERE estado = 'abierto'`,
		`CREATE INDEX IF NOT EXISTS idx_ventas_servicio_fecha
		    ON ventas (servicio_id, fecha)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
