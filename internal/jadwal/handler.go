package jadwal

import (
	"time"

	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateJadwalRequest struct {
	BankSampahID uint   `json:"bank_sampah_id" validate:"required"`
	Hari         int    `json:"hari" validate:"gte=0,lte=6"` // 0 = Minggu
	JamBuka      string `json:"jam_buka" validate:"required"`
	JamTutup     string `json:"jam_tutup" validate:"required"`
}

type JadwalResponse struct {
	ID           uint   `json:"id"`
	BankSampahID uint   `json:"bank_sampah_id"`
	Hari         int    `json:"hari"`
	JamBuka      string `json:"jam_buka"`
	JamTutup     string `json:"jam_tutup"`
	IsActive     bool   `json:"is_active"`
}

func toJadwalResponse(j *models.JadwalPenyetoran) JadwalResponse {
	return JadwalResponse{
		ID:           j.ID,
		BankSampahID: j.BankSampahID,
		Hari:         j.Hari,
		JamBuka:      j.JamBuka,
		JamTutup:     j.JamTutup,
		IsActive:     j.IsActive,
	}
}

func jamValid(jam string) bool {
	_, err := time.Parse("15:04", jam)
	return err == nil
}

// POST /api/jadwal (petugas bank terkait / admin)
func CreateJadwalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateJadwalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		if verr := validation.Struct(&body); verr != nil {
			return verr
		}
		if !jamValid(body.JamBuka) || !jamValid(body.JamTutup) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Format jam harus 'HH:MM'")
		}
		if body.JamTutup <= body.JamBuka {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Jam tutup harus setelah jam buka")
		}

		if !actor.IsAdmin() && !actor.PetugasDari(body.BankSampahID) {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berhak mengelola jadwal bank sampah ini")
		}

		var bank models.BankSampah
		if err := database.DB.First(&bank, body.BankSampahID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}

		jadwal := models.JadwalPenyetoran{
			BankSampahID: bank.ID,
			Hari:         body.Hari,
			JamBuka:      body.JamBuka,
			JamTutup:     body.JamTutup,
			IsActive:     true,
		}
		if err := database.DB.Create(&jadwal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Jadwal tidak bisa dibuat")
		}

		return respond.Success(c, fiber.StatusCreated, "Jadwal berhasil dibuat", toJadwalResponse(&jadwal))
	}
}

// GET /api/bank-sampah/:id/jadwal (publik)
func ListJadwalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bankID := c.Params("id")

		var bank models.BankSampah
		if err := database.DB.First(&bank, "id = ?", bankID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}

		var jadwals []models.JadwalPenyetoran
		if err := database.DB.
			Where("bank_sampah_id = ? AND is_active = ?", bank.ID, true).
			Order("hari asc, jam_buka asc").
			Find(&jadwals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Jadwal tidak bisa diambil")
		}

		res := make([]JadwalResponse, 0, len(jadwals))
		for i := range jadwals {
			res = append(res, toJadwalResponse(&jadwals[i]))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// DELETE /api/jadwal/:id (petugas bank terkait / admin)
func DeleteJadwalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var jadwal models.JadwalPenyetoran
		if err := database.DB.First(&jadwal, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		}

		if !actor.IsAdmin() && !actor.PetugasDari(jadwal.BankSampahID) {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berhak mengelola jadwal bank sampah ini")
		}

		if err := database.DB.Delete(&jadwal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Jadwal tidak bisa dihapus")
		}

		return respond.Success(c, fiber.StatusOK, "Jadwal berhasil dihapus", nil)
	}
}
