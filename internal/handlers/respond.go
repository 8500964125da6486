package handlers

import (
	"errors"
	"net/http"

	apperrors "carteira/internal/errors"
)

// statusFor maps the ledger error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		validation   *apperrors.ErrValidation
		notFound     *apperrors.ErrNotFound
		notAllowed   *apperrors.ErrNotAllowed
		mismatch     *apperrors.ErrCurrencyMismatch
		insufficient *apperrors.ErrInsufficientQuantity
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &notAllowed), errors.As(err, &mismatch), errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}
