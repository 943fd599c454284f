// File: internal/repository/database.go
package repository

import (
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// Open connects to the application database. driver is "sqlite" or "postgres".
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// Dialector maps a driver name to its gorm dialector.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DSN for driver %q", driver)
	}
	switch strings.ToLower(driver) {
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Chat{},
		&domain.Message{},
		&domain.Schema{},
		&domain.Query{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Printf("[Database] Migration completed")
	return nil
}
