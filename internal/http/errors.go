package http

import (
	"errors"
	"net/http"

	"cashflow/internal/core"
)

var validationErrors = []error{
	core.ErrInvalidDay,
	core.ErrInvalidMonth,
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	core.ErrMissingSource,
	core.ErrInvalidType,
	core.ErrInvalidStatus,
	core.ErrInvalidCategory,
	core.ErrEmptyName,
	core.ErrInvalidRange,
	errInvalidID,
}

// statusFor maps domain errors to HTTP status codes: validation problems are
// 422, missing rows 404, anything else 500.
func statusFor(err error) int {
	if errors.Is(err, core.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
