package models

import "time"

// SetoranLog: jejak perubahan status setoran, append-only.
// Satu entri per transisi; tidak pernah di-update atau dihapus.
type SetoranLog struct {
	ID        uint          `gorm:"primaryKey"`
	SetoranID uint          `gorm:"index;not null"`
	Status    SetoranStatus `gorm:"size:20;not null"`
	Catatan   string        `gorm:"size:500"`
	UserID    uint          `gorm:"not null"` // pelaku transisi
	CreatedAt time.Time
}
