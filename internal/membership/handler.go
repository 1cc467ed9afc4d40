package membership

import (
	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type JoinRequest struct {
	BankSampahID uint `json:"bank_sampah_id" validate:"required"`
}

type MembershipResponse struct {
	ID             uint                    `json:"id"`
	BankSampahID   uint                    `json:"bank_sampah_id"`
	BankSampahNama string                  `json:"bank_sampah_nama,omitempty"`
	KodeNasabah    string                  `json:"kode_nasabah"`
	Status         models.MembershipStatus `json:"status"`
	Saldo          float64                 `json:"saldo"`
	CreatedAt      string                  `json:"created_at"`
}

func toMembershipResponse(m *models.Membership) MembershipResponse {
	res := MembershipResponse{
		ID:           m.ID,
		BankSampahID: m.BankSampahID,
		KodeNasabah:  m.KodeNasabah,
		Status:       m.Status,
		Saldo:        m.Saldo,
		CreatedAt:    m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if m.BankSampah.ID != 0 {
		res.BankSampahNama = m.BankSampah.Nama
	}
	return res
}

// POST /api/memberships: nasabah mendaftar ke sebuah bank sampah
func JoinHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body JoinRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		m, err := Join(database.DB, actor.UserID, body.BankSampahID)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, "Berhasil terdaftar sebagai nasabah", toMembershipResponse(m))
	}
}

// GET /api/memberships/me
func MyMembershipsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var memberships []models.Membership
		if err := database.DB.Preload("BankSampah").
			Where("user_id = ?", actor.UserID).
			Order("created_at asc").
			Find(&memberships).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Keanggotaan tidak bisa diambil")
		}

		res := make([]MembershipResponse, 0, len(memberships))
		for i := range memberships {
			res = append(res, toMembershipResponse(&memberships[i]))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// GET /api/memberships?bank_sampah_id= (petugas/admin): daftar nasabah bank
func ListMembersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		bankID := uint(c.QueryInt("bank_sampah_id"))
		if actor.IsPetugas() {
			if actor.BankSampahID == nil {
				return fiber.NewError(fiber.StatusForbidden, "Petugas tidak terikat ke bank sampah manapun")
			}
			bankID = *actor.BankSampahID
		}
		if bankID == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "bank_sampah_id wajib diisi")
		}

		var memberships []models.Membership
		if err := database.DB.Preload("User").
			Where("bank_sampah_id = ?", bankID).
			Order("kode_nasabah asc").
			Find(&memberships).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Nasabah tidak bisa diambil")
		}

		res := make([]fiber.Map, 0, len(memberships))
		for _, m := range memberships {
			res = append(res, fiber.Map{
				"id":           m.ID,
				"kode_nasabah": m.KodeNasabah,
				"nama":         m.User.Nama,
				"status":       m.Status,
				"saldo":        m.Saldo,
			})
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

type SetStatusRequest struct {
	Status models.MembershipStatus `json:"status" validate:"required,oneof=aktif nonaktif"`
}

// PUT /api/memberships/:id/status (petugas bank terkait / admin)
func SetStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var m models.Membership
		if err := database.DB.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Keanggotaan tidak ditemukan")
		}

		if !actor.IsAdmin() && !actor.PetugasDari(m.BankSampahID) {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berhak mengubah status nasabah bank ini")
		}

		var body SetStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		m.Status = body.Status
		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Status keanggotaan tidak bisa diupdate")
		}

		return respond.Success(c, fiber.StatusOK, "Status keanggotaan berhasil diupdate", toMembershipResponse(&m))
	}
}
