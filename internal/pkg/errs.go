package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the HTTP status for the handler layer so services can
// return one error type for the whole taxonomy.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func appError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func Validation(msg string) *AppError {
	return appError(http.StatusBadRequest, "validation_error", msg)
}

func NotFound(msg string) *AppError {
	return appError(http.StatusNotFound, "not_found", msg)
}

func Forbidden(msg string) *AppError {
	return appError(http.StatusForbidden, "forbidden", msg)
}

func RateLimited(msg string) *AppError {
	return appError(http.StatusTooManyRequests, "rate_limited", msg)
}

func Conflict(msg string) *AppError {
	return appError(http.StatusConflict, "conflict", msg)
}

func Unauthorized(msg string) *AppError {
	return appError(http.StatusUnauthorized, "unauthorized", msg)
}

// HTTPStatus maps any error to a response status; unexpected errors are 500.
func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}
