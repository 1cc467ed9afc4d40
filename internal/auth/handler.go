package auth

import (
	"strings"

	"banksampah-backend/internal/config"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Nama     string `json:"nama" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Telepon  string `json:"telepon" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID           uint            `json:"id"`
	Nama         string          `json:"nama"`
	Email        string          `json:"email"`
	Telepon      string          `json:"telepon,omitempty"`
	Role         models.UserRole `json:"role"`
	BankSampahID *uint           `json:"bank_sampah_id,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Nama:         u.Nama,
		Email:        u.Email,
		Telepon:      u.Telepon,
		Role:         u.Role,
		BankSampahID: u.BankSampahID,
	}
}

// POST /api/auth/register: pendaftaran nasabah (self-service)
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
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

		user := models.User{
			Nama:         body.Nama,
			Email:        body.Email,
			PasswordHash: string(hash),
			Telepon:      body.Telepon,
			Role:         models.RoleNasabah,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User tidak bisa dibuat")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token tidak bisa dibuat")
		}

		return respond.Success(c, fiber.StatusCreated, "Registrasi berhasil", fiber.Map{
			"token": token,
			"user":  toUserResponse(&user),
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token tidak bisa dibuat")
		}

		return respond.Success(c, fiber.StatusOK, "Login berhasil", fiber.Map{
			"token": token,
			"user":  toUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, actor.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}

		data := fiber.Map{"user": toUserResponse(&user)}

		// Petugas: sertakan bank sampah tempat bertugas
		if user.BankSampahID != nil {
			var bank models.BankSampah
			if err := database.DB.First(&bank, *user.BankSampahID).Error; err == nil {
				data["bank_sampah"] = fiber.Map{
					"id":     bank.ID,
					"kode":   bank.Kode,
					"nama":   bank.Nama,
					"alamat": bank.Alamat,
				}
			}
		}

		return respond.Success(c, fiber.StatusOK, "OK", data)
	}
}
