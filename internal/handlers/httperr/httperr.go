// Package httperr maps ledger errors onto huma status errors.
package httperr

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/ledger"
)

// FromError converts err into a huma.StatusError. Validation failures are 400
// with one detail per field, missing records 404, other domain rejections
// 409, commit failures 503, anything else 500 with fallback as message.
func FromError(err error, fallback string) error {
	var validationErr *ledger.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]error, len(validationErr.Errors))
		for i, fieldErr := range validationErr.Errors {
			details[i] = detail(fieldErr)
		}
		return huma.NewError(http.StatusBadRequest, "validation failed", details...)
	}

	var domainErr ledger.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusConflict
		if errors.Is(err, ledger.ErrAccountNotFound) || errors.Is(err, ledger.ErrTransactionNotFound) {
			status = http.StatusNotFound
		}
		return huma.NewError(status, domainErr.Message, detail(domainErr))
	}

	if errors.Is(err, ledger.ErrCommit) {
		return huma.NewError(http.StatusServiceUnavailable, "the change could not be committed, retry with the same idempotency key", err)
	}

	return huma.NewError(http.StatusInternalServerError, fallback, err)
}

func detail(err ledger.DomainError) *huma.ErrorDetail {
	return &huma.ErrorDetail{
		Message:  err.Message,
		Location: err.Field,
		Value:    string(err.Code),
	}
}
