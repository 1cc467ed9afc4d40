package audit

import (
	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
	"banksampah-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/audit-logs?entity_type=&bank_sampah_id=&limit=
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.AuditLog{})

		if et := c.Query("entity_type"); et != "" {
			query = query.Where("entity_type = ?", et)
		}
		if bankID := c.QueryInt("bank_sampah_id"); bankID > 0 {
			query = query.Where("bank_sampah_id = ?", bankID)
		}

		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		var logs []models.AuditLog
		if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit log tidak bisa diambil")
		}

		return respond.Success(c, fiber.StatusOK, "OK", logs)
	}
}
