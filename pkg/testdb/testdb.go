// Package testdb opens throwaway in-memory sqlite databases for tests.
package testdb

import (
	"testing"

	"foodorder/entity"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated database private to the calling test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and avoids
	// sqlite table locks between goroutines
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&entity.User{}, &entity.Meal{}, &entity.Cart{}, &entity.Order{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
