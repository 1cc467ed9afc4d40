package katalog

import (
	"errors"

	"banksampah-backend/internal/models"

	"gorm.io/gorm"
)

// FindActiveItem mencari item katalog aktif milik bank sampah tertentu.
// Mengembalikan (nil, nil) kalau tidak ada; error hanya untuk kegagalan DB.
func FindActiveItem(tx *gorm.DB, bankSampahID, katalogID uint) (*models.KatalogSampah, error) {
	var item models.KatalogSampah
	err := tx.Where("id = ? AND bank_sampah_id = ? AND is_active = ?", katalogID, bankSampahID, true).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UnitPrice mengambil harga katalog saat ini.
func UnitPrice(tx *gorm.DB, katalogID uint) (float64, error) {
	var item models.KatalogSampah
	if err := tx.Select("harga_per_satuan").First(&item, katalogID).Error; err != nil {
		return 0, err
	}
	return item.HargaPerSatuan, nil
}
