package membership

import (
	"errors"
	"fmt"

	"banksampah-backend/internal/apperr"
	"banksampah-backend/internal/models"

	"gorm.io/gorm"
)

// Join mendaftarkan user sebagai nasabah sebuah bank sampah dan
// men-generate kode nasabah unik. Satu user satu keanggotaan per bank.
func Join(db *gorm.DB, userID, bankSampahID uint) (*models.Membership, error) {
	var bank models.BankSampah
	if err := db.First(&bank, bankSampahID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Bank sampah tidak ditemukan")
		}
		return nil, apperr.Internal("Bank sampah tidak bisa diambil", err)
	}
	if !bank.IsActive {
		return nil, apperr.Validation("Bank sampah sedang tidak aktif", nil)
	}

	var existing int64
	db.Model(&models.Membership{}).
		Where("user_id = ? AND bank_sampah_id = ?", userID, bankSampahID).
		Count(&existing)
	if existing > 0 {
		return nil, apperr.Validation("Anda sudah terdaftar di bank sampah ini", nil)
	}

	var m *models.Membership
	err := db.Transaction(func(tx *gorm.DB) error {
		kode, err := nextKodeNasabah(tx, &bank)
		if err != nil {
			return err
		}

		m = &models.Membership{
			UserID:       userID,
			BankSampahID: bank.ID,
			KodeNasabah:  kode,
			Status:       models.MembershipAktif,
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, apperr.Internal("Keanggotaan tidak bisa dibuat", err)
	}

	return m, nil
}

// nextKodeNasabah: "<kode bank>-<urutan 5 digit>", dicoba naik terus
// kalau kebetulan tabrakan dengan kode lama.
func nextKodeNasabah(tx *gorm.DB, bank *models.BankSampah) (string, error) {
	var count int64
	if err := tx.Model(&models.Membership{}).
		Where("bank_sampah_id = ?", bank.ID).
		Count(&count).Error; err != nil {
		return "", err
	}

	seq := count + 1
	for i := 0; i < 100; i++ {
		kode := fmt.Sprintf("%s-%05d", bank.Kode, seq)
		var exists int64
		if err := tx.Model(&models.Membership{}).
			Where("kode_nasabah = ?", kode).
			Count(&exists).Error; err != nil {
			return "", err
		}
		if exists == 0 {
			return kode, nil
		}
		seq++
	}
	return "", fmt.Errorf("kode nasabah tidak bisa di-generate untuk bank %s", bank.Kode)
}

// IsActiveMember: gerbang akses yang dipakai workflow setoran.
func IsActiveMember(db *gorm.DB, userID, bankSampahID uint) bool {
	var count int64
	db.Model(&models.Membership{}).
		Where("user_id = ? AND bank_sampah_id = ? AND status = ?",
			userID, bankSampahID, models.MembershipAktif).
		Count(&count)
	return count > 0
}

// KodeNasabahFor mengambil kode nasabah user pada bank tertentu.
func KodeNasabahFor(db *gorm.DB, userID, bankSampahID uint) (string, error) {
	var m models.Membership
	err := db.Where("user_id = ? AND bank_sampah_id = ?", userID, bankSampahID).First(&m).Error
	if err != nil {
		return "", err
	}
	return m.KodeNasabah, nil
}
