package katalog

import (
	"strings"

	"banksampah-backend/internal/audit"
	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type KatalogResponse struct {
	ID             uint    `json:"id"`
	BankSampahID   uint    `json:"bank_sampah_id"`
	KategoriID     uint    `json:"kategori_id"`
	KategoriNama   string  `json:"kategori_nama,omitempty"`
	SubKategoriID  *uint   `json:"sub_kategori_id,omitempty"`
	Nama           string  `json:"nama"`
	Satuan         string  `json:"satuan"`
	HargaPerSatuan float64 `json:"harga_per_satuan"`
	IsActive       bool    `json:"is_active"`
}

type CreateKatalogRequest struct {
	BankSampahID   uint    `json:"bank_sampah_id" validate:"required"`
	KategoriID     uint    `json:"kategori_id" validate:"required"`
	SubKategoriID  *uint   `json:"sub_kategori_id"`
	Nama           string  `json:"nama" validate:"required,min=2,max=100"`
	Satuan         string  `json:"satuan" validate:"omitempty,max=20"`
	HargaPerSatuan float64 `json:"harga_per_satuan" validate:"required,gt=0"`
}

type UpdateKatalogRequest struct {
	Nama           *string  `json:"nama"`
	HargaPerSatuan *float64 `json:"harga_per_satuan"`
	IsActive       *bool    `json:"is_active"`
}

func toKatalogResponse(k *models.KatalogSampah) KatalogResponse {
	res := KatalogResponse{
		ID:             k.ID,
		BankSampahID:   k.BankSampahID,
		KategoriID:     k.KategoriID,
		SubKategoriID:  k.SubKategoriID,
		Nama:           k.Nama,
		Satuan:         k.Satuan,
		HargaPerSatuan: k.HargaPerSatuan,
		IsActive:       k.IsActive,
	}
	if k.Kategori.ID != 0 {
		res.KategoriNama = k.Kategori.Nama
	}
	return res
}

// petugas hanya boleh mengelola katalog bank tempatnya bertugas
func bolehKelolaKatalog(actor auth.Actor, bankSampahID uint) bool {
	return actor.IsAdmin() || actor.PetugasDari(bankSampahID)
}

// POST /api/katalog (petugas bank terkait / admin)
func CreateKatalogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateKatalogRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		body.Nama = strings.TrimSpace(body.Nama)
		if body.Satuan == "" {
			body.Satuan = "kg"
		}

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		if !bolehKelolaKatalog(actor, body.BankSampahID) {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berhak mengelola katalog bank sampah ini")
		}

		var bank models.BankSampah
		if err := database.DB.First(&bank, body.BankSampahID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}

		var kategori models.KategoriSampah
		if err := database.DB.First(&kategori, body.KategoriID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori tidak ditemukan")
		}

		// Resolusi skema sekali di sini: v2 wajib sub-kategori milik
		// kategori tsb, v1 tidak boleh punya sub-kategori.
		if kategori.SkemaVersi == models.SkemaKategoriBaru {
			if body.SubKategoriID == nil {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Kategori ini membutuhkan sub-kategori")
			}
			var sub models.SubKategoriSampah
			if err := database.DB.Where("id = ? AND kategori_id = ?", *body.SubKategoriID, kategori.ID).
				First(&sub).Error; err != nil {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Sub-kategori tidak cocok dengan kategori")
			}
		} else if body.SubKategoriID != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Kategori skema lama tidak memakai sub-kategori")
		}

		item := models.KatalogSampah{
			BankSampahID:   body.BankSampahID,
			KategoriID:     body.KategoriID,
			SubKategoriID:  body.SubKategoriID,
			Nama:           body.Nama,
			Satuan:         body.Satuan,
			HargaPerSatuan: body.HargaPerSatuan,
			IsActive:       true,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Item katalog tidak bisa dibuat")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BankSampahID: &item.BankSampahID,
			UserID:       actor.UserID,
			UserName:     actor.Nama,
			EntityType:   "katalog_sampah",
			EntityID:     item.ID,
			Action:       models.AuditActionCreate,
			Description:  "Item katalog dibuat: " + item.Nama,
			After:        item,
		})

		return respond.Success(c, fiber.StatusCreated, "Item katalog berhasil dibuat", toKatalogResponse(&item))
	}
}

// GET /api/bank-sampah/:id/katalog?kategori_id= (publik)
func ListKatalogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bankID := c.Params("id")

		var bank models.BankSampah
		if err := database.DB.First(&bank, "id = ?", bankID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}

		query := database.DB.Preload("Kategori").
			Where("bank_sampah_id = ? AND is_active = ?", bank.ID, true)

		if kategoriID := c.QueryInt("kategori_id"); kategoriID > 0 {
			query = query.Where("kategori_id = ?", kategoriID)
		}

		var items []models.KatalogSampah
		if err := query.Order("nama asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog tidak bisa diambil")
		}

		res := make([]KatalogResponse, 0, len(items))
		for i := range items {
			res = append(res, toKatalogResponse(&items[i]))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// PUT /api/katalog/:id (petugas bank terkait / admin)
func UpdateKatalogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var item models.KatalogSampah
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item katalog tidak ditemukan")
		}
		before := item

		if !bolehKelolaKatalog(actor, item.BankSampahID) {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berhak mengelola katalog bank sampah ini")
		}

		var body UpdateKatalogRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Nama != nil {
			nama := strings.TrimSpace(*body.Nama)
			if nama == "" {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Nama item tidak boleh kosong")
			}
			item.Nama = nama
		}
		if body.HargaPerSatuan != nil {
			if *body.HargaPerSatuan <= 0 {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Harga harus lebih besar dari 0")
			}
			// Harga baru hanya berlaku untuk item setoran berikutnya;
			// setoran lama tetap memakai HargaSnapshot masing-masing.
			item.HargaPerSatuan = *body.HargaPerSatuan
		}
		if body.IsActive != nil {
			item.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Item katalog tidak bisa diupdate")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BankSampahID: &item.BankSampahID,
			UserID:       actor.UserID,
			UserName:     actor.Nama,
			EntityType:   "katalog_sampah",
			EntityID:     item.ID,
			Action:       models.AuditActionUpdate,
			Description:  "Item katalog diupdate: " + item.Nama,
			Before:       before,
			After:        item,
		})

		return respond.Success(c, fiber.StatusOK, "Item katalog berhasil diupdate", toKatalogResponse(&item))
	}
}
