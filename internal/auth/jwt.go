package auth

import (
	"time"

	"banksampah-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTCustomClaims struct {
	UserID       uint            `json:"user_id"`
	Nama         string          `json:"nama"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	BankSampahID *uint           `json:"bank_sampah_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID:       user.ID,
		Nama:         user.Nama,
		Email:        user.Email,
		Role:         user.Role,
		BankSampahID: user.BankSampahID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
