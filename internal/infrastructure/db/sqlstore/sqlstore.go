// Package sqlstore is the relational directory backend, built on gorm with
// the sqlite driver.
package sqlstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config captures the settings for opening the sqlite database.
type Config struct {
	// Path is a filesystem path or a sqlite URI such as
	// "file:test?mode=memory&cache=shared".
	Path string
	// Debug routes gorm's SQL log to stdout.
	Debug bool
}

// Open connects to the database, applies connection pragmas and migrates the
// directory schema.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlstore: empty database path")
	}
	if !isURI(cfg.Path) {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlstore: create db folder: %w", err)
		}
	}

	gormLogger := logger.Discard
	if cfg.Debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	// one connection: sqlite has a single writer, and in-memory databases
	// live only as long as their connection
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	models := []any{
		&roleRecord{},
		&userRecord{},
		&functionRecord{},
		&subordinateRecord{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("sqlstore: migrate %T: %w", m, err)
		}
	}
	return nil
}

// Close checkpoints the WAL and closes the underlying connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Exec("PRAGMA wal_checkpoint;").Error; err != nil {
		return fmt.Errorf("sqlstore: checkpoint: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isURI(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file:")
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	params := "_foreign_keys=on&_busy_timeout=5000"
	if !strings.Contains(path, "mode=memory") && path != ":memory:" {
		params += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return path + sep + params
}
