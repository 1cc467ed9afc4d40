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

type CreateKategoriRequest struct {
	Nama string `json:"nama" validate:"required,min=2,max=100"`
}

type CreateSubKategoriRequest struct {
	Nama string `json:"nama" validate:"required,min=2,max=100"`
}

type KategoriResponse struct {
	ID          uint                  `json:"id"`
	Nama        string                `json:"nama"`
	SkemaVersi  int                   `json:"skema_versi"`
	SubKategori []SubKategoriResponse `json:"sub_kategori"`
}

type SubKategoriResponse struct {
	ID   uint   `json:"id"`
	Nama string `json:"nama"`
}

func toKategoriResponse(k *models.KategoriSampah) KategoriResponse {
	subs := make([]SubKategoriResponse, 0, len(k.SubKategori))
	for _, s := range k.SubKategori {
		subs = append(subs, SubKategoriResponse{ID: s.ID, Nama: s.Nama})
	}
	return KategoriResponse{
		ID:          k.ID,
		Nama:        k.Nama,
		SkemaVersi:  k.SkemaVersi,
		SubKategori: subs,
	}
}

// POST /api/admin/kategori (admin). Kategori baru selalu skema v2.
func CreateKategoriHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateKategoriRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		body.Nama = strings.TrimSpace(body.Nama)

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		kategori := models.KategoriSampah{
			Nama:       body.Nama,
			SkemaVersi: models.SkemaKategoriBaru,
		}
		if err := database.DB.Create(&kategori).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori tidak bisa dibuat")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Nama,
			EntityType:  "kategori_sampah",
			EntityID:    kategori.ID,
			Action:      models.AuditActionCreate,
			Description: "Kategori dibuat: " + kategori.Nama,
			After:       kategori,
		})

		return respond.Success(c, fiber.StatusCreated, "Kategori berhasil dibuat", toKategoriResponse(&kategori))
	}
}

// GET /api/kategori
func ListKategoriHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var kategoris []models.KategoriSampah
		if err := database.DB.Preload("SubKategori").Order("nama asc").Find(&kategoris).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori tidak bisa diambil")
		}

		res := make([]KategoriResponse, 0, len(kategoris))
		for i := range kategoris {
			res = append(res, toKategoriResponse(&kategoris[i]))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// POST /api/admin/kategori/:id/sub (admin)
func CreateSubKategoriHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var kategori models.KategoriSampah
		if err := database.DB.First(&kategori, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori tidak ditemukan")
		}

		// Kategori skema lama tidak punya sub-kategori
		if kategori.SkemaVersi == models.SkemaKategoriLama {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Kategori skema lama tidak mendukung sub-kategori")
		}

		var body CreateSubKategoriRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		body.Nama = strings.TrimSpace(body.Nama)

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		sub := models.SubKategoriSampah{
			KategoriID: kategori.ID,
			Nama:       body.Nama,
		}
		if err := database.DB.Create(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sub-kategori tidak bisa dibuat")
		}

		return respond.Success(c, fiber.StatusCreated, "Sub-kategori berhasil dibuat", SubKategoriResponse{
			ID:   sub.ID,
			Nama: sub.Nama,
		})
	}
}
