package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tawargy/sqliteserver/internal/infrastructure/queue"
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStatter exposes worker pool occupancy.
type PoolStatter interface {
	Stats() queue.Stats
}

// HealthHandler handles GET /health (liveness probe).
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready (readiness probe).
// Checks the database, the cache when one is configured, and that the worker
// pool still accepts work.
type ReadinessHandler struct {
	db    Pinger
	cache Pinger
	pool  PoolStatter
	log   zerolog.Logger
}

// NewReadinessHandler builds the readiness probe. cache may be nil.
func NewReadinessHandler(db Pinger, cache Pinger, pool PoolStatter, log zerolog.Logger) *ReadinessHandler {
	return &ReadinessHandler{
		db:    db,
		cache: cache,
		pool:  pool,
		log:   log.With().Str("component", "readiness").Logger(),
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type poolStatus struct {
	Status   string `json:"status"`
	Workers  int    `json:"workers"`
	Busy     int    `json:"busy"`
	Queued   int    `json:"queued"`
	Capacity int    `json:"capacity"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	WorkerPool   *poolStatus                 `json:"worker_pool,omitempty"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	check := func(name string, p Pinger) {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			deps[name] = dependencyStatus{Status: "unhealthy", Error: "unreachable"}
			healthy = false
			return
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	check("database", h.db)
	if h.cache != nil {
		check("redis", h.cache)
	}

	var pool *poolStatus
	if h.pool != nil {
		st := h.pool.Stats()
		pool = &poolStatus{
			Status:   "ok",
			Workers:  st.Workers,
			Busy:     st.Busy,
			Queued:   st.Queued,
			Capacity: st.Capacity,
		}
		if st.Closed {
			pool.Status = "closed"
			healthy = false
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
		WorkerPool:   pool,
	})
}
