package ports

import (
	"context"

	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// ResourceService serves generic record retrieval.
type ResourceService interface {
	Get(ctx context.Context, id int64) domain.Response
}

// ResourceCache is an optional read-through cache for resources.
// Get returns (nil, nil) on a miss.
type ResourceCache interface {
	Get(ctx context.Context, id int64) (*domain.Resource, error)
	Set(ctx context.Context, res *domain.Resource) error
}
