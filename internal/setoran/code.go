package setoran

import (
	"fmt"
	"math/rand"

	"banksampah-backend/internal/models"

	"gorm.io/gorm"
)

const kodeMaxRetry = 10

// NewKode membuat kode setoran unik: kode bank + satu huruf acak +
// 6 digit acak, mis. "BSMA042317". Kalau beberapa kali tabrakan,
// bagian digit diperlebar jadi 8 supaya ruangnya lega.
func NewKode(tx *gorm.DB, bank *models.BankSampah) (string, error) {
	for i := 0; i < kodeMaxRetry; i++ {
		digits := 6
		if i >= kodeMaxRetry/2 {
			digits = 8
		}

		kode := randomKode(bank.Kode, digits)

		var count int64
		if err := tx.Model(&models.Setoran{}).Where("kode = ?", kode).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return kode, nil
		}
	}
	return "", fmt.Errorf("kode setoran tidak bisa di-generate untuk bank %s", bank.Kode)
}

func randomKode(prefix string, digits int) string {
	letter := byte('A' + rand.Intn(26))
	limit := 1
	for i := 0; i < digits; i++ {
		limit *= 10
	}
	return fmt.Sprintf("%s%c%0*d", prefix, letter, digits, rand.Intn(limit))
}
