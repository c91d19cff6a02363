package service

import (
	"errors"
	"net/http"

	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// failureResponse maps an execution failure to a -2 response. The detail is
// chosen from the classification only, so no driver text reaches clients.
func failureResponse(err error) domain.Response {
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		return domain.Failure(http.StatusServiceUnavailable, "Failed: service temporarily unavailable, retry later")
	case errors.Is(err, domain.ErrTimeout):
		return domain.Failure(http.StatusInternalServerError, "Failed: operation timed out")
	default:
		return domain.Failure(http.StatusInternalServerError, "Failed: could not complete the operation")
	}
}
