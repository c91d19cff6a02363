package ports

import (
	"context"

	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// Store is the only path to the relational database. Implementations own the
// connection pool; callers never see the raw handle.
type Store interface {
	// CheckExists reports whether any row of table has column = value.
	CheckExists(ctx context.Context, table, column, value string) (bool, error)
	// Execute runs a parameterized statement with its bound arguments.
	Execute(ctx context.Context, stmt domain.Statement) (domain.QueryOutcome, error)
}
