package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/ports"
	"github.com/tawargy/sqliteserver/internal/pkg/metrics"
)

type resourceService struct {
	exec  ports.QueryExecutor
	cache ports.ResourceCache
	log   zerolog.Logger
}

// NewResourceService returns the GET /resource/:id service. cache may be nil.
func NewResourceService(exec ports.QueryExecutor, cache ports.ResourceCache, log zerolog.Logger) ports.ResourceService {
	return &resourceService{
		exec:  exec,
		cache: cache,
		log:   log.With().Str("component", "resource").Logger(),
	}
}

func (s *resourceService) Get(ctx context.Context, id int64) domain.Response {
	if s.cache != nil {
		res, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.ResourceCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Int64("id", id).Msg("resource cache read failed, falling back to store")
		case res != nil:
			metrics.ResourceCacheTotal.WithLabelValues("hit").Inc()
			return domain.Success("Resource found", res)
		default:
			metrics.ResourceCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	res, err := s.exec.FindResource(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Response{
			HTTPStatus:    http.StatusNotFound,
			Status:        domain.StatusRejected,
			StatusMessage: "Resource not found",
			Body:          fmt.Sprintf("No resource with id %d", id),
		}
	}
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("resource lookup failed")
		return failureResponse(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, res); err != nil {
			s.log.Warn().Err(err).Int64("id", id).Msg("resource cache write failed")
		}
	}
	return domain.Success("Resource found", res)
}
