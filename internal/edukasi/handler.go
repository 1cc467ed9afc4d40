package edukasi

import (
	"fmt"
	"regexp"
	"strings"

	"banksampah-backend/internal/audit"
	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateKontenRequest struct {
	Judul       string            `json:"judul" validate:"required,min=3,max=150"`
	Tipe        models.TipeKonten `json:"tipe" validate:"required,oneof=artikel video"`
	Konten      string            `json:"konten" validate:"required"`
	DurasiMenit int               `json:"durasi_menit" validate:"gte=0"`
	IsPublished bool              `json:"is_published"`
}

type UpdateKontenRequest struct {
	Judul       *string `json:"judul"`
	Konten      *string `json:"konten"`
	DurasiMenit *int    `json:"durasi_menit"`
	IsPublished *bool   `json:"is_published"`
}

type ProgressRequest struct {
	Status        models.ProgressStatus `json:"status" validate:"required,oneof=mulai selesai"`
	ProgresPersen int                   `json:"progres_persen" validate:"gte=0,lte=100"`
}

type KontenResponse struct {
	ID          uint              `json:"id"`
	Judul       string            `json:"judul"`
	Slug        string            `json:"slug"`
	Tipe        models.TipeKonten `json:"tipe"`
	Konten      string            `json:"konten,omitempty"`
	DurasiMenit int               `json:"durasi_menit"`
	IsPublished bool              `json:"is_published"`
	CreatedAt   string            `json:"created_at"`
}

func toKontenResponse(k *models.KontenEdukasi, withBody bool) KontenResponse {
	res := KontenResponse{
		ID:          k.ID,
		Judul:       k.Judul,
		Slug:        k.Slug,
		Tipe:        k.Tipe,
		DurasiMenit: k.DurasiMenit,
		IsPublished: k.IsPublished,
		CreatedAt:   k.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if withBody {
		res.Konten = k.Konten
	}
	return res
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// slugify: judul jadi slug URL, diberi suffix angka kalau sudah dipakai.
func slugify(judul string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(judul))
	slug = slugNonAlnum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	base := slug
	for i := 2; ; i++ {
		var count int64
		if err := database.DB.Model(&models.KontenEdukasi{}).
			Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// POST /api/admin/edukasi (admin)
func CreateKontenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateKontenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		body.Judul = strings.TrimSpace(body.Judul)

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		slug, err := slugify(body.Judul)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Slug konten tidak bisa dibuat")
		}

		konten := models.KontenEdukasi{
			Judul:       body.Judul,
			Slug:        slug,
			Tipe:        body.Tipe,
			Konten:      body.Konten,
			DurasiMenit: body.DurasiMenit,
			IsPublished: body.IsPublished,
		}
		if err := database.DB.Create(&konten).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konten tidak bisa dibuat")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Nama,
			EntityType:  "konten_edukasi",
			EntityID:    konten.ID,
			Action:      models.AuditActionCreate,
			Description: "Konten edukasi dibuat: " + konten.Judul,
			After:       konten,
		})

		return respond.Success(c, fiber.StatusCreated, "Konten berhasil dibuat", toKontenResponse(&konten, true))
	}
}

// PUT /api/admin/edukasi/:id (admin)
func UpdateKontenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var konten models.KontenEdukasi
		if err := database.DB.First(&konten, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Konten tidak ditemukan")
		}
		before := konten

		var body UpdateKontenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Judul != nil {
			judul := strings.TrimSpace(*body.Judul)
			if judul == "" {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Judul tidak boleh kosong")
			}
			konten.Judul = judul
		}
		if body.Konten != nil {
			konten.Konten = *body.Konten
		}
		if body.DurasiMenit != nil {
			konten.DurasiMenit = *body.DurasiMenit
		}
		if body.IsPublished != nil {
			konten.IsPublished = *body.IsPublished
		}

		if err := database.DB.Save(&konten).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konten tidak bisa diupdate")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Nama,
			EntityType:  "konten_edukasi",
			EntityID:    konten.ID,
			Action:      models.AuditActionUpdate,
			Description: "Konten edukasi diupdate: " + konten.Judul,
			Before:      before,
			After:       konten,
		})

		return respond.Success(c, fiber.StatusOK, "Konten berhasil diupdate", toKontenResponse(&konten, true))
	}
}

// GET /api/edukasi?tipe= (publik, hanya yang published, tanpa isi)
func ListKontenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Where("is_published = ?", true)

		if tipe := c.Query("tipe"); tipe != "" {
			query = query.Where("tipe = ?", tipe)
		}

		var kontens []models.KontenEdukasi
		if err := query.Order("created_at DESC").Find(&kontens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konten tidak bisa diambil")
		}

		res := make([]KontenResponse, 0, len(kontens))
		for i := range kontens {
			res = append(res, toKontenResponse(&kontens[i], false))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// GET /api/edukasi/:slug (publik)
func GetKontenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")

		var konten models.KontenEdukasi
		if err := database.DB.Where("slug = ? AND is_published = ?", slug, true).
			First(&konten).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Konten tidak ditemukan")
		}

		return respond.Success(c, fiber.StatusOK, "OK", toKontenResponse(&konten, true))
	}
}

// PUT /api/edukasi/:id/progress: upsert progres user pada satu konten
func UpsertProgressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		kontenID, err := c.ParamsInt("id")
		if err != nil || kontenID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID konten tidak valid")
		}

		var konten models.KontenEdukasi
		if err := database.DB.Where("id = ? AND is_published = ?", kontenID, true).
			First(&konten).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Konten tidak ditemukan")
		}

		var body ProgressRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		// konten selesai selalu 100%
		if body.Status == models.ProgressSelesai {
			body.ProgresPersen = 100
		}

		var progress models.ProgressEdukasi
		err = database.DB.Where("user_id = ? AND konten_id = ?", actor.UserID, konten.ID).
			First(&progress).Error
		if err != nil {
			progress = models.ProgressEdukasi{
				UserID:        actor.UserID,
				KontenID:      konten.ID,
				Status:        body.Status,
				ProgresPersen: body.ProgresPersen,
			}
			if err := database.DB.Create(&progress).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Progres tidak bisa disimpan")
			}
		} else {
			// progres tidak pernah mundur
			if body.ProgresPersen > progress.ProgresPersen {
				progress.ProgresPersen = body.ProgresPersen
			}
			if body.Status == models.ProgressSelesai {
				progress.Status = models.ProgressSelesai
				progress.ProgresPersen = 100
			}
			if err := database.DB.Save(&progress).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Progres tidak bisa disimpan")
			}
		}

		return respond.Success(c, fiber.StatusOK, "Progres berhasil disimpan", fiber.Map{
			"konten_id":      progress.KontenID,
			"status":         progress.Status,
			"progres_persen": progress.ProgresPersen,
		})
	}
}

// GET /api/edukasi/progress/me
func MyProgressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var progresses []models.ProgressEdukasi
		if err := database.DB.Preload("Konten").
			Where("user_id = ?", actor.UserID).
			Order("updated_at DESC").
			Find(&progresses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Progres tidak bisa diambil")
		}

		res := make([]fiber.Map, 0, len(progresses))
		for _, p := range progresses {
			res = append(res, fiber.Map{
				"konten_id":      p.KontenID,
				"judul":          p.Konten.Judul,
				"slug":           p.Konten.Slug,
				"tipe":           p.Konten.Tipe,
				"status":         p.Status,
				"progres_persen": p.ProgresPersen,
			})
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}
