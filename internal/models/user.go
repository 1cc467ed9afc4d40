package models

import "time"

type UserRole string

const (
	RoleNasabah UserRole = "nasabah"
	RolePetugas UserRole = "petugas"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint  `gorm:"primaryKey"`
	BankSampahID *uint // hanya petugas: bank sampah tempat bertugas
	BankSampah   *BankSampah
	Nama         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Telepon      string   `gorm:"size:30"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
