package banksampah

import (
	"strings"

	"banksampah-backend/internal/audit"
	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type BankSampahResponse struct {
	ID          uint    `json:"id"`
	Kode        string  `json:"kode"`
	Nama        string  `json:"nama"`
	Alamat      string  `json:"alamat"`
	Telepon     string  `json:"telepon"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	TotalTonase float64 `json:"total_tonase"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

type CreateBankSampahRequest struct {
	Kode      string  `json:"kode" validate:"required,min=2,max=10"`
	Nama      string  `json:"nama" validate:"required,min=3,max=100"`
	Alamat    string  `json:"alamat" validate:"max=255"`
	Telepon   string  `json:"telepon" validate:"omitempty,max=30"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type UpdateBankSampahRequest struct {
	Nama      *string  `json:"nama"`
	Alamat    *string  `json:"alamat"`
	Telepon   *string  `json:"telepon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"is_active"`
}

type CreatePetugasRequest struct {
	Nama     string `json:"nama" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Telepon  string `json:"telepon" validate:"omitempty,max=30"`
}

func toResponse(b *models.BankSampah) BankSampahResponse {
	return BankSampahResponse{
		ID:          b.ID,
		Kode:        b.Kode,
		Nama:        b.Nama,
		Alamat:      b.Alamat,
		Telepon:     b.Telepon,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		TotalTonase: b.TotalTonase,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/admin/bank-sampah (admin)
func CreateBankSampahHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateBankSampahRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Kode = strings.ToUpper(strings.TrimSpace(body.Kode))
		body.Nama = strings.TrimSpace(body.Nama)

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		var count int64
		database.DB.Model(&models.BankSampah{}).Where("kode = ?", body.Kode).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Kode bank sampah sudah dipakai")
		}

		bank := models.BankSampah{
			Kode:      body.Kode,
			Nama:      body.Nama,
			Alamat:    body.Alamat,
			Telepon:   body.Telepon,
			Latitude:  body.Latitude,
			Longitude: body.Longitude,
			IsActive:  true,
		}

		if err := database.DB.Create(&bank).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bank sampah tidak bisa dibuat")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BankSampahID: &bank.ID,
			UserID:       actor.UserID,
			UserName:     actor.Nama,
			EntityType:   "bank_sampah",
			EntityID:     bank.ID,
			Action:       models.AuditActionCreate,
			Description:  "Bank sampah dibuat: " + bank.Nama,
			After:        bank,
		})

		return respond.Success(c, fiber.StatusCreated, "Bank sampah berhasil dibuat", toResponse(&bank))
	}
}

// GET /api/bank-sampah (publik, hanya yang aktif)
func ListBankSampahHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var banks []models.BankSampah
		if err := database.DB.Where("is_active = ?", true).Order("nama asc").Find(&banks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bank sampah tidak bisa diambil")
		}

		res := make([]BankSampahResponse, 0, len(banks))
		for i := range banks {
			res = append(res, toResponse(&banks[i]))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// GET /api/bank-sampah/:id
func GetBankSampahHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var bank models.BankSampah
		if err := database.DB.First(&bank, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}

		return respond.Success(c, fiber.StatusOK, "OK", toResponse(&bank))
	}
}

// PUT /api/admin/bank-sampah/:id (admin)
func UpdateBankSampahHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var bank models.BankSampah
		if err := database.DB.First(&bank, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}
		before := bank

		var body UpdateBankSampahRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Nama != nil {
			nama := strings.TrimSpace(*body.Nama)
			if nama == "" {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Nama bank sampah tidak boleh kosong")
			}
			bank.Nama = nama
		}
		if body.Alamat != nil {
			bank.Alamat = strings.TrimSpace(*body.Alamat)
		}
		if body.Telepon != nil {
			bank.Telepon = strings.TrimSpace(*body.Telepon)
		}
		if body.Latitude != nil {
			bank.Latitude = *body.Latitude
		}
		if body.Longitude != nil {
			bank.Longitude = *body.Longitude
		}
		if body.IsActive != nil {
			bank.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&bank).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bank sampah tidak bisa diupdate")
		}

		_ = audit.WriteLog(audit.LogOptions{
			BankSampahID: &bank.ID,
			UserID:       actor.UserID,
			UserName:     actor.Nama,
			EntityType:   "bank_sampah",
			EntityID:     bank.ID,
			Action:       models.AuditActionUpdate,
			Description:  "Bank sampah diupdate: " + bank.Nama,
			Before:       before,
			After:        bank,
		})

		return respond.Success(c, fiber.StatusOK, "Bank sampah berhasil diupdate", toResponse(&bank))
	}
}

// POST /api/admin/bank-sampah/:id/petugas (admin): buat akun petugas untuk bank ini
func CreatePetugasHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var bank models.BankSampah
		if err := database.DB.First(&bank, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bank sampah tidak ditemukan")
		}

		var body CreatePetugasRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Nama = strings.TrimSpace(body.Nama)

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Email sudah terdaftar")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password tidak bisa di-hash")
		}

		petugas := models.User{
			BankSampahID: &bank.ID,
			Nama:         body.Nama,
			Email:        body.Email,
			PasswordHash: string(hash),
			Telepon:      body.Telepon,
			Role:         models.RolePetugas,
		}

		if err := database.DB.Create(&petugas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Akun petugas tidak bisa dibuat")
		}

		return respond.Success(c, fiber.StatusCreated, "Akun petugas berhasil dibuat", fiber.Map{
			"id":             petugas.ID,
			"nama":           petugas.Nama,
			"email":          petugas.Email,
			"role":           petugas.Role,
			"bank_sampah_id": petugas.BankSampahID,
		})
	}
}

// GET /api/admin/bank-sampah/:id/petugas (admin)
func ListPetugasHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var petugas []models.User
		if err := database.DB.Where("bank_sampah_id = ? AND role = ?", id, models.RolePetugas).
			Order("nama asc").Find(&petugas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Petugas tidak bisa diambil")
		}

		res := make([]fiber.Map, 0, len(petugas))
		for _, p := range petugas {
			res = append(res, fiber.Map{
				"id":      p.ID,
				"nama":    p.Nama,
				"email":   p.Email,
				"telepon": p.Telepon,
			})
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}
