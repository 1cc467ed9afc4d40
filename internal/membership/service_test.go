package membership

import (
	"testing"

	"banksampah-backend/internal/apperr"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBankDanUser(t *testing.T, db *gorm.DB) (models.BankSampah, models.User, models.User) {
	t.Helper()

	bank := models.BankSampah{Kode: "BSM", Nama: "Bank Sampah Melati", IsActive: true}
	require.NoError(t, db.Create(&bank).Error)

	budi := models.User{Nama: "Budi", Email: "budi@example.com", PasswordHash: "x", Role: models.RoleNasabah}
	require.NoError(t, db.Create(&budi).Error)
	siti := models.User{Nama: "Siti", Email: "siti@example.com", PasswordHash: "x", Role: models.RoleNasabah}
	require.NoError(t, db.Create(&siti).Error)

	return bank, budi, siti
}

func TestJoinMembuatKodeBerurutan(t *testing.T) {
	db := database.OpenTest(t)
	bank, budi, siti := seedBankDanUser(t, db)

	m1, err := Join(db, budi.ID, bank.ID)
	require.NoError(t, err)
	assert.Equal(t, "BSM-00001", m1.KodeNasabah)
	assert.Equal(t, models.MembershipAktif, m1.Status)

	m2, err := Join(db, siti.ID, bank.ID)
	require.NoError(t, err)
	assert.Equal(t, "BSM-00002", m2.KodeNasabah)
}

func TestJoinDuaKaliDitolak(t *testing.T) {
	db := database.OpenTest(t)
	bank, budi, _ := seedBankDanUser(t, db)

	_, err := Join(db, budi.ID, bank.ID)
	require.NoError(t, err)

	_, err = Join(db, budi.ID, bank.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestJoinBankTidakAdaAtauNonaktif(t *testing.T) {
	db := database.OpenTest(t)
	bank, budi, _ := seedBankDanUser(t, db)

	_, err := Join(db, budi.ID, 99999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, db.Model(&models.BankSampah{}).
		Where("id = ?", bank.ID).
		Update("is_active", false).Error)
	_, err = Join(db, budi.ID, bank.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestIsActiveMember(t *testing.T) {
	db := database.OpenTest(t)
	bank, budi, siti := seedBankDanUser(t, db)

	_, err := Join(db, budi.ID, bank.ID)
	require.NoError(t, err)

	assert.True(t, IsActiveMember(db, budi.ID, bank.ID))
	assert.False(t, IsActiveMember(db, siti.ID, bank.ID))

	// keanggotaan nonaktif bukan nasabah aktif
	require.NoError(t, db.Model(&models.Membership{}).
		Where("user_id = ?", budi.ID).
		Update("status", models.MembershipNonaktif).Error)
	assert.False(t, IsActiveMember(db, budi.ID, bank.ID))
}

func TestKodeNasabahFor(t *testing.T) {
	db := database.OpenTest(t)
	bank, budi, _ := seedBankDanUser(t, db)

	m, err := Join(db, budi.ID, bank.ID)
	require.NoError(t, err)

	kode, err := KodeNasabahFor(db, budi.ID, bank.ID)
	require.NoError(t, err)
	assert.Equal(t, m.KodeNasabah, kode)
}
