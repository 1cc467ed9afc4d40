package models

import "time"

type SetoranStatus string

const (
	SetoranPengajuan  SetoranStatus = "pengajuan"
	SetoranDiproses   SetoranStatus = "diproses"
	SetoranSelesai    SetoranStatus = "selesai"
	SetoranDibatalkan SetoranStatus = "dibatalkan"
)

// Setoran: satu kejadian setor sampah oleh nasabah.
// TotalBerat/TotalNilai selalu hasil penjumlahan ulang seluruh item,
// TotalPoin = floor(TotalNilai / 1000). Status adalah nilai cache dari
// entri SetoranLog terakhir.
type Setoran struct {
	ID           uint   `gorm:"primaryKey"`
	Kode         string `gorm:"size:20;uniqueIndex;not null"`
	UserID       uint   `gorm:"index;not null"`
	User         User
	BankSampahID uint `gorm:"index;not null"`
	BankSampah   BankSampah
	Tanggal      time.Time     `gorm:"index;not null"` // tanggal setor
	Status       SetoranStatus `gorm:"size:20;not null;default:pengajuan"`
	TotalBerat   float64       `gorm:"default:0"` // kg
	TotalNilai   float64       `gorm:"default:0"` // rupiah
	TotalPoin    int           `gorm:"default:0"`
	Catatan      string        `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []SetoranItem `gorm:"constraint:OnDelete:CASCADE"`
	Logs  []SetoranLog  `gorm:"constraint:OnDelete:CASCADE"`
}
