package banksampah

import (
	"banksampah-backend/internal/models"

	"gorm.io/gorm"
)

// RecomputeTonase menghitung ulang total tonase bank sampah dari nol:
// jumlah berat seluruh setoran berstatus selesai. Selalu re-sum penuh,
// bukan penambahan inkremental, supaya tidak ada drift.
func RecomputeTonase(tx *gorm.DB, bankSampahID uint) error {
	var total float64
	err := tx.Model(&models.Setoran{}).
		Where("bank_sampah_id = ? AND status = ?", bankSampahID, models.SetoranSelesai).
		Select("COALESCE(SUM(total_berat), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.BankSampah{}).
		Where("id = ?", bankSampahID).
		Update("total_tonase", total).Error
}
