package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskapp/internal/model"
)

// NewDB opens a SQLite database and runs migrations for both record kinds.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "taskapp.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// nextID allocates the next id for the given record kind: max existing id
// plus one, or zero for an empty table. Task and Category ids are separate
// sequences. It must run on the same transaction handle as the insert that
// consumes the id, otherwise two writers could read the same max and collide.
func nextID(tx *gorm.DB, kind any) (int, error) {
	var id int
	if err := tx.Model(kind).
		Select("COALESCE(MAX(id), -1) + 1").
		Scan(&id).Error; err != nil {
		return 0, fmt.Errorf("scan max id: %w", err)
	}
	return id, nil
}
