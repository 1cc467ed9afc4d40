package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTest membuka SQLite in-memory untuk test dan mengarahkan DB global
// ke sana supaya handler yang memakai database.DB ikut ter-test.
func OpenTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("tidak bisa membuka sqlite in-memory: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate database test gagal: %v", err)
	}

	prev := DB
	DB = db
	t.Cleanup(func() { DB = prev })

	return db
}
