package infra

import (
	"fmt"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema; also used by integration tests against
// throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Day{},
		&model.DaySnapshot{},
		&model.Table{},
		&model.Product{},
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceLine{},
		&model.FinanceTransaction{},
		&model.BilliardSession{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM cannot fully handle.
// The partial unique index is what makes "at most one open day" a database
// guarantee rather than an application promise.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_days_single_open') THEN
		    CREATE UNIQUE INDEX idx_days_single_open ON days (is_open) WHERE is_open;
		  END IF;
		END $$`,
		// One open invoice per table, enforced even under concurrent creates.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_open_per_table') THEN
		    CREATE UNIQUE INDEX idx_invoices_open_per_table ON invoices (table_id) WHERE status = 'OPEN';
		  END IF;
		END $$`,
		// One running billiard session per table.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_billiard_active_per_table') THEN
		    CREATE UNIQUE INDEX idx_billiard_active_per_table ON billiard_sessions (table_id) WHERE ended_at IS NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
