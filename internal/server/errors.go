package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cover-letter/internal/export"
	"github.com/jonathan/cover-letter/internal/extraction"
	"github.com/jonathan/cover-letter/internal/fetch"
	"github.com/jonathan/cover-letter/internal/form"
	"github.com/jonathan/cover-letter/internal/generation"
	"github.com/jonathan/cover-letter/internal/types"
)

// ErrValidation indicates a malformed request
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		fields      *types.ValidationError
		unsupported *extraction.UnsupportedFileTypeError
		extract     *extraction.ExtractionError
		generate    *generation.GenerationError
		exportErr   *export.Error
		fetchErr    *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &fields):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extract):
		return http.StatusUnprocessableEntity
	case errors.As(err, &generate), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &exportErr):
		return http.StatusInternalServerError
	case errors.Is(err, form.ErrBusy), errors.Is(err, form.ErrNoLetter), errors.Is(err, form.ErrCustomCVDisabled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
