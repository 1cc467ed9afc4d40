package models

import "time"

// KatalogSampah: jenis sampah yang diterima satu bank sampah beserta harganya.
// Harga boleh diubah; setoran lama tidak ikut berubah karena harga
// disimpan sebagai snapshot di SetoranItem.
type KatalogSampah struct {
	ID             uint `gorm:"primaryKey"`
	BankSampahID   uint `gorm:"index;not null"`
	BankSampah     BankSampah
	KategoriID     uint `gorm:"index;not null"`
	Kategori       KategoriSampah
	SubKategoriID  *uint // nil untuk kategori skema lama
	SubKategori    *SubKategoriSampah
	Nama           string  `gorm:"size:100;not null"`
	Satuan         string  `gorm:"size:20;not null;default:kg"`
	HargaPerSatuan float64 `gorm:"not null"` // rupiah per satuan
	IsActive       bool    `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
