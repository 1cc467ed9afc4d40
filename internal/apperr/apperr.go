// Package apperr mendefinisikan taksonomi error bisnis dan pemetaannya
// ke status HTTP. Semua pelanggaran aturan dideteksi sebelum mutasi dan
// dikembalikan sinkron ke pemanggil.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindInvalidTransition
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // detail per field, khusus validasi
	Err     error             // error asli, hanya untuk log internal
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus memetakan jenis error ke status code sesuai kontrak API.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidTransition:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func InvalidTransition(msg string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// IsKind mengecek apakah err adalah *Error dengan jenis tertentu.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
