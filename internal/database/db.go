package database

import (
	"log"

	"banksampah-backend/internal/config"
	"banksampah-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Tidak bisa terhubung ke database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate gagal: %v", err)
	}

	log.Println("Koneksi database berhasil. Migration selesai.")
}

// Migrate menjalankan AutoMigrate untuk semua model. Dipisah dari Init
// supaya bisa dipakai juga oleh database test.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BankSampah{},
		&models.User{},
		&models.Membership{},
		&models.KategoriSampah{},
		&models.SubKategoriSampah{},
		&models.KatalogSampah{},
		&models.Setoran{},
		&models.SetoranItem{},
		&models.SetoranLog{},
		&models.JadwalPenyetoran{},
		&models.KontenEdukasi{},
		&models.ProgressEdukasi{},
		&models.AuditLog{},
	)
}
