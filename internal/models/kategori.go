package models

import "time"

// Versi skema kategori. Versi 1 adalah data lama tanpa sub-kategori,
// versi 2 memakai sub-kategori. Flag ini dibaca sekali saat query,
// tidak ada pengecekan dinamis per pemakaian.
const (
	SkemaKategoriLama = 1
	SkemaKategoriBaru = 2
)

type KategoriSampah struct {
	ID         uint   `gorm:"primaryKey"`
	Nama       string `gorm:"size:100;not null;unique"`
	SkemaVersi int    `gorm:"not null;default:2"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	SubKategori []SubKategoriSampah `gorm:"foreignKey:KategoriID"`
}

type SubKategoriSampah struct {
	ID         uint   `gorm:"primaryKey"`
	KategoriID uint   `gorm:"index;not null"`
	Nama       string `gorm:"size:100;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
