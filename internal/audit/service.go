package audit

import (
	"encoding/json"
	"fmt"

	"banksampah-backend/internal/database"
	"banksampah-backend/internal/models"
)

type LogOptions struct {
	BankSampahID *uint
	UserID       uint
	UserName     string
	EntityType   string
	EntityID     uint
	Action       models.AuditAction
	Description  string
	Before       any
	After        any
}

// WriteLog mencatat mutasi data master. Kegagalan audit tidak boleh
// menggagalkan operasi utamanya, jadi pemanggil biasanya mengabaikan
// error-nya.
func WriteLog(opts LogOptions) error {
	// jsonb butuh JSON valid, bukan string kosong
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		BankSampahID: opts.BankSampahID,
		UserID:       opts.UserID,
		UserName:     opts.UserName,
		EntityType:   opts.EntityType,
		EntityID:     opts.EntityID,
		Action:       opts.Action,
		Description:  opts.Description,
		BeforeData:   beforeStr,
		AfterData:    afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log gagal disimpan: %w", err)
	}

	return nil
}
