package handler

import (
	"errors"
	"net/http"

	"fftopup/internal/service"
)

// statusFor maps a service error to its HTTP status. Anything unrecognised
// is an internal failure.
func statusFor(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateOrder):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
