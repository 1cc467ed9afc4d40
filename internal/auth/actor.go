package auth

import "banksampah-backend/internal/models"

// Actor: identitas pelaku request, di-resolve sekali di middleware JWT
// lalu dioper eksplisit ke fungsi workflow. Tidak ada query role ulang
// di dalam handler/service.
type Actor struct {
	UserID       uint
	Nama         string
	Role         models.UserRole
	BankSampahID *uint // bank tempat petugas bertugas, nil untuk role lain
}

func (a Actor) IsAdmin() bool   { return a.Role == models.RoleAdmin }
func (a Actor) IsPetugas() bool { return a.Role == models.RolePetugas }
func (a Actor) IsNasabah() bool { return a.Role == models.RoleNasabah }

// PetugasDari mengecek apakah actor adalah petugas di bank sampah tertentu.
func (a Actor) PetugasDari(bankSampahID uint) bool {
	return a.IsPetugas() && a.BankSampahID != nil && *a.BankSampahID == bankSampahID
}
