// Package executor turns domain commands into bound SQL statements, runs them
// on the worker pool and classifies the outcome.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/ports"
	"github.com/tawargy/sqliteserver/internal/infrastructure/db/sqldb"
	"github.com/tawargy/sqliteserver/internal/infrastructure/queue"
)

const (
	defaultTimeout = 5 * time.Second
	tracerName     = "github.com/tawargy/sqliteserver/internal/infrastructure/executor"
)

const (
	insertUserSQL = `INSERT INTO users (username, password_hash, role, user_data) VALUES (?, ?, ?, ?) ` +
		`ON CONFLICT (username) DO NOTHING RETURNING id`
	findResourceSQL = `SELECT id, username, role, CAST(user_data AS TEXT) AS user_data FROM users WHERE id = ?`
)

// Pool is the part of the worker pool the executor needs.
type Pool interface {
	Submit(ctx context.Context, task queue.Task) (*queue.Handle, error)
}

// Options configures an Executor.
type Options struct {
	// Timeout bounds each operation from submission to result.
	Timeout time.Duration
}

// Executor implements ports.QueryExecutor.
type Executor struct {
	store   ports.Store
	pool    Pool
	timeout time.Duration
	log     zerolog.Logger
	tracer  trace.Tracer
}

var _ ports.QueryExecutor = (*Executor)(nil)

func New(store ports.Store, pool Pool, opts Options, log zerolog.Logger) *Executor {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Executor{
		store:   store,
		pool:    pool,
		timeout: timeout,
		log:     log.With().Str("component", "query_executor").Logger(),
		tracer:  otel.Tracer(tracerName),
	}
}

// UserExists probes the users table for username.
func (e *Executor) UserExists(ctx context.Context, username string) (bool, error) {
	v, err := e.submit(ctx, "user_exists", func(ctx context.Context) (any, error) {
		return e.store.CheckExists(ctx, domain.UsersTable, "username", username)
	})
	if err != nil {
		return false, e.classify("user exists", err)
	}
	exists, _ := v.(bool)
	return exists, nil
}

// InsertUser persists req. A lost race against a concurrent insert of the
// same username surfaces as domain.ErrUserExists or domain.ErrNoEffect.
func (e *Executor) InsertUser(ctx context.Context, req domain.RegistrationRequest) (domain.QueryOutcome, error) {
	stmt := domain.Statement{
		Query:   insertUserSQL,
		Args:    []any{req.Username, req.PasswordHash, req.Role, string(req.UserData)},
		Returns: true,
	}
	v, err := e.submit(ctx, "insert_user", func(ctx context.Context) (any, error) {
		return e.store.Execute(ctx, stmt)
	})
	if err != nil {
		if errors.Is(err, sqldb.ErrUniqueViolation) {
			return domain.QueryOutcome{}, fmt.Errorf("insert user: %w", domain.ErrUserExists)
		}
		return domain.QueryOutcome{}, e.classify("insert user", err)
	}

	out, _ := v.(domain.QueryOutcome)
	if out.Affected == 0 {
		return out, fmt.Errorf("insert user: %w", domain.ErrNoEffect)
	}
	return out, nil
}

// FindResource loads the users row with the given id.
func (e *Executor) FindResource(ctx context.Context, id int64) (*domain.Resource, error) {
	stmt := domain.Statement{Query: findResourceSQL, Args: []any{id}, Returns: true}
	v, err := e.submit(ctx, "find_resource", func(ctx context.Context) (any, error) {
		return e.store.Execute(ctx, stmt)
	})
	if err != nil {
		return nil, e.classify("find resource", err)
	}

	out, _ := v.(domain.QueryOutcome)
	if len(out.Rows) == 0 {
		return nil, fmt.Errorf("find resource %d: %w", id, domain.ErrNotFound)
	}
	res, err := resourceFromRow(out.Rows[0])
	if err != nil {
		e.log.Error().Err(err).Int64("id", id).Msg("malformed users row")
		return nil, fmt.Errorf("find resource %d: %w", id, domain.ErrPersistence)
	}
	return res, nil
}

func (e *Executor) submit(ctx context.Context, op string, task queue.Task) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "executor."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.operation", op)),
	)
	defer span.End()

	h, err := e.pool.Submit(ctx, task)
	if err == nil {
		var v any
		v, err = h.Wait(ctx)
		if err == nil {
			return v, nil
		}
	}
	span.SetStatus(codes.Error, op+" failed")
	return nil, err
}

// classify maps a raw pool or driver failure onto a domain sentinel. The raw
// error is logged here and dropped from the returned chain.
func (e *Executor) classify(op string, err error) error {
	var kind error
	switch {
	case errors.Is(err, queue.ErrQueueFull),
		errors.Is(err, queue.ErrPoolClosed),
		errors.Is(err, queue.ErrDropped),
		errors.Is(err, sqldb.ErrRetryable):
		kind = domain.ErrUnavailable
	case errors.Is(err, queue.ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		kind = domain.ErrTimeout
	default:
		kind = domain.ErrPersistence
	}

	evt := e.log.Error()
	if kind != domain.ErrPersistence {
		evt = e.log.Warn()
	}
	evt.Err(err).Str("op", op).Str("kind", kind.Error()).Msg("query failed")

	return fmt.Errorf("%s: %w", op, kind)
}

func resourceFromRow(row domain.Row) (*domain.Resource, error) {
	id, ok := row.Int64("id")
	if !ok {
		return nil, fmt.Errorf("id column has type %T", row["id"])
	}
	username, _ := row["username"].(string)
	role, _ := row["role"].(string)

	var data json.RawMessage
	switch v := row["user_data"].(type) {
	case string:
		data = json.RawMessage(v)
	case []byte:
		data = json.RawMessage(v)
	case nil:
		data = json.RawMessage("null")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("user_data: %w", err)
		}
		data = b
	}
	if !json.Valid(data) {
		return nil, errors.New("user_data is not valid json")
	}
	return &domain.Resource{ID: id, Username: username, Role: role, UserData: data}, nil
}
