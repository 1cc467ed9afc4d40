package models

import "time"

type TipeKonten string

const (
	KontenArtikel TipeKonten = "artikel"
	KontenVideo   TipeKonten = "video"
)

type KontenEdukasi struct {
	ID          uint       `gorm:"primaryKey"`
	Judul       string     `gorm:"size:150;not null"`
	Slug        string     `gorm:"size:170;uniqueIndex;not null"`
	Tipe        TipeKonten `gorm:"size:20;not null"`
	Konten      string     `gorm:"type:text"` // isi artikel atau URL video
	DurasiMenit int        `gorm:"default:0"` // estimasi baca/tonton
	IsPublished bool       `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProgressStatus string

const (
	ProgressMulai   ProgressStatus = "mulai"
	ProgressSelesai ProgressStatus = "selesai"
)

// ProgressEdukasi: progres satu user pada satu konten, di-upsert.
type ProgressEdukasi struct {
	ID            uint           `gorm:"primaryKey"`
	UserID        uint           `gorm:"not null;uniqueIndex:idx_progress_user_konten"`
	KontenID      uint           `gorm:"not null;uniqueIndex:idx_progress_user_konten"`
	Konten        KontenEdukasi  `gorm:"foreignKey:KontenID"`
	Status        ProgressStatus `gorm:"size:20;not null;default:mulai"`
	ProgresPersen int            `gorm:"not null;default:0"` // 0-100
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
