// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vaughan-dsouza/medium-blog/internal/db"
)

// New returns a migrated sqlite database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: db.NewGormLogger(zerolog.Nop()),
	})
	if err != nil {
		t.Fatalf("dbtest: open sqlite: %v", err)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		t.Fatalf("dbtest: sql handle: %v", err)
	}
	// every new connection would get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(orm); err != nil {
		t.Fatalf("dbtest: %v", err)
	}

	return orm
}
