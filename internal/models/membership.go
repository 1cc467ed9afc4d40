package models

import "time"

type MembershipStatus string

const (
	MembershipAktif    MembershipStatus = "aktif"
	MembershipNonaktif MembershipStatus = "nonaktif"
)

// Membership: keanggotaan nasabah pada satu bank sampah.
// Satu user hanya boleh punya satu keanggotaan per bank.
type Membership struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;uniqueIndex:idx_membership_user_bank"`
	User         User
	BankSampahID uint `gorm:"not null;uniqueIndex:idx_membership_user_bank"`
	BankSampah   BankSampah
	KodeNasabah  string           `gorm:"size:30;uniqueIndex;not null"`
	Status       MembershipStatus `gorm:"size:20;not null;default:aktif"`
	Saldo        float64          `gorm:"default:0"` // rupiah, bertambah saat setoran selesai
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
