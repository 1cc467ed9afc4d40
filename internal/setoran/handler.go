package setoran

import (
	"time"

	"banksampah-backend/internal/auth"
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"
	"banksampah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateSetoranRequest struct {
	BankSampahID uint   `json:"bank_sampah_id" validate:"required"`
	KatalogIDs   []uint `json:"katalog_ids" validate:"required,min=1"`
	Tanggal      string `json:"tanggal"` // "2006-01-02", default hari ini
}

type UpdateItemRequest struct {
	Berat float64 `json:"berat" validate:"required,gt=0"`
}

type TransitionRequest struct {
	Status  models.SetoranStatus `json:"status" validate:"required,oneof=diproses selesai"`
	Catatan string               `json:"catatan" validate:"max=500"`
}

type CancelRequest struct {
	Catatan string `json:"catatan" validate:"max=500"`
}

type SetoranItemResponse struct {
	ID            uint    `json:"id"`
	KatalogID     uint    `json:"katalog_id"`
	KatalogNama   string  `json:"katalog_nama,omitempty"`
	Berat         float64 `json:"berat"`
	HargaSnapshot float64 `json:"harga_snapshot"`
	Nilai         float64 `json:"nilai"`
}

type SetoranLogResponse struct {
	Status    models.SetoranStatus `json:"status"`
	Catatan   string               `json:"catatan"`
	UserID    uint                 `json:"user_id"`
	CreatedAt string               `json:"created_at"`
}

type SetoranResponse struct {
	ID           uint                  `json:"id"`
	Kode         string                `json:"kode"`
	UserID       uint                  `json:"user_id"`
	BankSampahID uint                  `json:"bank_sampah_id"`
	Tanggal      string                `json:"tanggal"`
	Status       models.SetoranStatus  `json:"status"`
	TotalBerat   float64               `json:"total_berat"`
	TotalNilai   float64               `json:"total_nilai"`
	TotalPoin    int                   `json:"total_poin"`
	Catatan      string                `json:"catatan,omitempty"`
	Items        []SetoranItemResponse `json:"items,omitempty"`
	Logs         []SetoranLogResponse  `json:"logs,omitempty"`
	CreatedAt    string                `json:"created_at"`
}

func toSetoranResponse(st *models.Setoran) SetoranResponse {
	res := SetoranResponse{
		ID:           st.ID,
		Kode:         st.Kode,
		UserID:       st.UserID,
		BankSampahID: st.BankSampahID,
		Tanggal:      st.Tanggal.Format("2006-01-02"),
		Status:       st.Status,
		TotalBerat:   st.TotalBerat,
		TotalNilai:   st.TotalNilai,
		TotalPoin:    st.TotalPoin,
		Catatan:      st.Catatan,
		CreatedAt:    st.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, it := range st.Items {
		item := SetoranItemResponse{
			ID:            it.ID,
			KatalogID:     it.KatalogID,
			Berat:         it.Berat,
			HargaSnapshot: it.HargaSnapshot,
			Nilai:         it.Nilai,
		}
		if it.Katalog.ID != 0 {
			item.KatalogNama = it.Katalog.Nama
		}
		res.Items = append(res.Items, item)
	}
	for _, lg := range st.Logs {
		res.Logs = append(res.Logs, SetoranLogResponse{
			Status:    lg.Status,
			Catatan:   lg.Catatan,
			UserID:    lg.UserID,
			CreatedAt: lg.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return res
}

// POST /api/setoran: nasabah mengajukan setoran
func CreateSetoranHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateSetoranRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		tanggal := time.Now()
		if body.Tanggal != "" {
			d, err := time.Parse("2006-01-02", body.Tanggal)
			if err != nil {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Format tanggal harus 'YYYY-MM-DD'")
			}
			tanggal = d
		}

		st, err := svc.Create(actor, body.BankSampahID, body.KatalogIDs, tanggal)
		if err != nil {
			return err
		}

		// muat ulang beserta item untuk response
		var full models.Setoran
		if err := database.DB.Preload("Items.Katalog").First(&full, st.ID).Error; err == nil {
			st = &full
		}

		return respond.Success(c, fiber.StatusCreated, "Setoran berhasil diajukan", toSetoranResponse(st))
	}
}

// GET /api/setoran?status=&bank_sampah_id=: cakupan mengikuti role
func ListSetoranHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		query := database.DB.Model(&models.Setoran{})

		switch {
		case actor.IsNasabah():
			query = query.Where("user_id = ?", actor.UserID)
		case actor.IsPetugas():
			if actor.BankSampahID == nil {
				return fiber.NewError(fiber.StatusForbidden, "Petugas tidak terikat ke bank sampah manapun")
			}
			query = query.Where("bank_sampah_id = ?", *actor.BankSampahID)
		default: // admin boleh memfilter bank manapun
			if bankID := c.QueryInt("bank_sampah_id"); bankID > 0 {
				query = query.Where("bank_sampah_id = ?", bankID)
			}
		}

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var setorans []models.Setoran
		if err := query.Order("created_at DESC").Find(&setorans).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Setoran tidak bisa diambil")
		}

		res := make([]SetoranResponse, 0, len(setorans))
		for i := range setorans {
			res = append(res, toSetoranResponse(&setorans[i]))
		}
		return respond.Success(c, fiber.StatusOK, "OK", res)
	}
}

// GET /api/setoran/:id: detail beserta item dan riwayat status
func GetSetoranHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var st models.Setoran
		if err := database.DB.Preload("Items.Katalog").Preload("Logs").
			First(&st, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Setoran tidak ditemukan")
		}

		boleh := actor.IsAdmin() || actor.PetugasDari(st.BankSampahID) || st.UserID == actor.UserID
		if !boleh {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berhak melihat setoran ini")
		}

		return respond.Success(c, fiber.StatusOK, "OK", toSetoranResponse(&st))
	}
}

// PUT /api/setoran/:id/items/:itemId: isi berat item
func UpdateItemWeightHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		setoranID, err := c.ParamsInt("id")
		if err != nil || setoranID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID setoran tidak valid")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID item tidak valid")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		st, err := svc.SetLineWeight(actor, uint(setoranID), uint(itemID), body.Berat)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, "Berat item berhasil diupdate", toSetoranResponse(st))
	}
}

// DELETE /api/setoran/:id/items/:itemId
func RemoveItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		setoranID, err := c.ParamsInt("id")
		if err != nil || setoranID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID setoran tidak valid")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID item tidak valid")
		}

		st, err := svc.RemoveLine(actor, uint(setoranID), uint(itemID))
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, "Item setoran berhasil dihapus", toSetoranResponse(st))
	}
}

// POST /api/setoran/:id/status (petugas/admin)
func UpdateStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		setoranID, err := c.ParamsInt("id")
		if err != nil || setoranID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID setoran tidak valid")
		}

		var body TransitionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		if verr := validation.Struct(&body); verr != nil {
			return verr
		}

		st, err := svc.Transition(actor, uint(setoranID), body.Status, body.Catatan)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, "Status setoran berhasil diubah", toSetoranResponse(st))
	}
}

// POST /api/setoran/:id/cancel
func CancelHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		setoranID, err := c.ParamsInt("id")
		if err != nil || setoranID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID setoran tidak valid")
		}

		var body CancelRequest
		// body opsional
		_ = c.BodyParser(&body)

		st, err := svc.Cancel(actor, uint(setoranID), body.Catatan)
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, "Setoran berhasil dibatalkan", toSetoranResponse(st))
	}
}
