package services

import (
	"fmt"
	"net/http"
)

// AppError carries a short user-facing message plus the HTTP status the
// controller layer should answer with. Services never leak raw DB
// errors through it; unexpected failures stay plain errors and become
// a 500 upstream.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

// NotFound signals that a referenced entity does not exist.
func NotFound(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict signals a business-rule violation (capacity exceeded,
// duplicate unique value, invalid state transition).
func Conflict(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// BadRequest signals an invalid payload value.
func BadRequest(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}
