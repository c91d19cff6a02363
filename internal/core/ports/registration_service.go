package ports

import (
	"context"

	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// RegistrationService turns a raw POST /users body into exactly one response.
type RegistrationService interface {
	Register(ctx context.Context, body []byte) domain.Response
}
