package models

import "time"

// BankSampah: titik pengumpulan sampah beserta operatornya
type BankSampah struct {
	ID          uint   `gorm:"primaryKey"`
	Kode        string `gorm:"size:10;uniqueIndex;not null"` // prefix kode setoran, mis. "BSM"
	Nama        string `gorm:"size:100;not null"`
	Alamat      string `gorm:"size:255"`
	Telepon     string `gorm:"size:30"`
	Latitude    float64
	Longitude   float64
	TotalTonase float64 `gorm:"default:0"` // kg, agregat dari setoran selesai
	IsActive    bool    `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
