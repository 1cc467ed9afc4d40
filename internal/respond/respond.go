// Package respond membungkus semua response API dalam amplop JSON
// {success, message, data?, errors?}.
package respond

import (
	"errors"
	"log"

	"banksampah-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func Success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Fail(c *fiber.Ctx, status int, message string, errs any) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// ErrorHandler memetakan taksonomi error ke amplop JSON. Error tak
// terduga tidak pernah bocor ke klien, hanya dicatat di log internal.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindInternal {
			log.Println("Error internal:", ae.Error())
			return Fail(c, ae.HTTPStatus(), "Terjadi kesalahan pada server", nil)
		}
		return Fail(c, ae.HTTPStatus(), ae.Message, ae.Fields)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Fail(c, fe.Code, fe.Message, nil)
	}

	log.Println("Error tak terduga:", err)
	return Fail(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server", nil)
}
