package setoran

import (
	"testing"
	"time"

	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomKodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^BSM[A-Z]\d{6}$`, randomKode("BSM", 6))
	}
	assert.Regexp(t, `^BSK[A-Z]\d{8}$`, randomKode("BSK", 8))
}

func TestNewKodeUnik(t *testing.T) {
	db := database.OpenTest(t)

	bank := models.BankSampah{Kode: "BSM", Nama: "Bank Sampah Melati", IsActive: true}
	require.NoError(t, db.Create(&bank).Error)
	user := models.User{Nama: "Budi", Email: "budi@example.com", PasswordHash: "x", Role: models.RoleNasabah}
	require.NoError(t, db.Create(&user).Error)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		kode, err := NewKode(db, &bank)
		require.NoError(t, err)
		assert.False(t, seen[kode], "kode %s muncul dua kali", kode)
		seen[kode] = true

		require.NoError(t, db.Create(&models.Setoran{
			Kode:         kode,
			UserID:       user.ID,
			BankSampahID: bank.ID,
			Tanggal:      time.Now(),
			Status:       models.SetoranPengajuan,
		}).Error)
	}
}
