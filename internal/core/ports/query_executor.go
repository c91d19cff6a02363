package ports

import (
	"context"

	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// QueryExecutor runs domain commands on the worker pool and returns
// classified outcomes (see the domain Err* sentinels).
type QueryExecutor interface {
	UserExists(ctx context.Context, username string) (bool, error)
	InsertUser(ctx context.Context, req domain.RegistrationRequest) (domain.QueryOutcome, error)
	FindResource(ctx context.Context, id int64) (*domain.Resource, error)
}
