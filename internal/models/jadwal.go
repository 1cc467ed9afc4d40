package models

import "time"

// JadwalPenyetoran: jam operasional penerimaan setoran per bank sampah.
// Hari memakai konvensi time.Weekday (0 = Minggu).
type JadwalPenyetoran struct {
	ID           uint `gorm:"primaryKey"`
	BankSampahID uint `gorm:"index;not null"`
	BankSampah   BankSampah
	Hari         int    `gorm:"not null"`
	JamBuka      string `gorm:"size:5;not null"` // "08:00"
	JamTutup     string `gorm:"size:5;not null"` // "16:00"
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
