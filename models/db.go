package models

import (
	"fmt"

	// registers the "postgres" database/sql driver used under gorm
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects gorm to a postgres or sqlite database.
//
// Postgres goes through lib/pq rather than pgx so constraint failures surface
// as *pq.Error. SQLite connections always enable foreign keys, otherwise the
// teas -> categories constraint would not be enforced.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch driver {
	case DriverPostgres:
		return gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        dsn,
		}), cfg)
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// the pragma is per connection and in-memory databases are per connection too
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the categories and teas tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Category{}, &Tea{})
}
