package cmd

import (
	"fmt"

	"github.com/frahmantamala/lead-management/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// sqlDriver maps a storage driver to its database/sql driver name.
func sqlDriver(driver string) (string, error) {
	switch driver {
	case internal.StorageDriverPostgres:
		return "pgx", nil
	case internal.StorageDriverSQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("storage driver %q has no database", driver)
}

// initDB opens and pings the storage database.
func initDB(cfg internal.StorageConfig) (*sqlx.DB, error) {
	driver, err := sqlDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// openGorm wraps an already open connection so gorm, goose and the health
// check share one pool.
func openGorm(db *sqlx.DB, driver string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case internal.StorageDriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: db.DB})
	case internal.StorageDriverSQLite:
		dialector = sqlite.Dialector{Conn: db.DB}
	default:
		return nil, fmt.Errorf("storage driver %q has no database", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gormDB, nil
}
