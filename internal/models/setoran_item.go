package models

import "time"

// SetoranItem: satu jenis sampah di dalam sebuah setoran.
// HargaSnapshot diambil dari harga katalog saat item dibuat sehingga
// perubahan harga katalog tidak menggeser nilai setoran lama.
type SetoranItem struct {
	ID            uint `gorm:"primaryKey"`
	SetoranID     uint `gorm:"index;not null"`
	KatalogID     uint `gorm:"index;not null"`
	Katalog       KatalogSampah
	Berat         float64 `gorm:"not null;default:0"` // kg
	HargaSnapshot float64 `gorm:"not null;default:0"` // rupiah per satuan saat item dibuat
	Nilai         float64 `gorm:"not null;default:0"` // Berat * HargaSnapshot
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
