// Package sqldb owns the relational database handle and exposes it only
// through parameterized statements.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open the store.
type Config struct {
	Driver       string // "postgres" or "sqlite"
	DSN          string
	MaxOpenConns int
	Timeout      time.Duration
}

// Open connects to the database, verifies connectivity with a ping and makes
// sure the users table exists. A default timeout is applied when none is
// provided.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("%s: dsn is required", d.name)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open(d.driverName, d.dsn(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", d.name, err)
	}
	maxOpen := cfg.MaxOpenConns
	if d.singleWriter || maxOpen <= 0 {
		maxOpen = d.defaultMaxOpen
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(connectCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", d.name, err)
	}

	s := &Store{db: db, dialect: d}
	if err := s.EnsureSchema(connectCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
