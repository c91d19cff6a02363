package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/policy"
)

var (
	// ErrUniqueViolation marks a failed UNIQUE or PRIMARY KEY constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrRetryable marks lock, busy and serialization failures.
	ErrRetryable = errors.New("retryable database failure")
	// ErrInvalidIdentifier is returned for table or column names that are not
	// plain lowercase identifiers.
	ErrInvalidIdentifier = errors.New("invalid sql identifier")
)

// Store executes parameterized statements against the database. It has
// exclusive ownership of the *sql.DB.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Driver reports the dialect name ("postgres" or "sqlite").
func (s *Store) Driver() string { return s.dialect.name }

// EnsureSchema creates the users table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s ensure schema: %w", s.dialect.name, err)
		}
	}
	return nil
}

// CheckExists reports whether a row with column = value exists in table.
// table and column must be plain identifiers; value is always bound.
func (s *Store) CheckExists(ctx context.Context, table, column, value string) (bool, error) {
	if !policy.IdentifierValid(table) || !policy.IdentifierValid(column) {
		return false, fmt.Errorf("check exists %q.%q: %w", table, column, ErrInvalidIdentifier)
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %q WHERE %q = ?)`, table, column)

	var exists bool
	if err := s.db.QueryRowContext(ctx, s.bind(query), value).Scan(&exists); err != nil {
		return false, s.wrap("check exists", err)
	}
	return exists, nil
}

// Execute runs stmt. When stmt.Returns is set the statement is expected to
// produce rows (SELECT or RETURNING) and Affected is the row count.
func (s *Store) Execute(ctx context.Context, stmt domain.Statement) (domain.QueryOutcome, error) {
	query := s.bind(stmt.Query)
	if !stmt.Returns {
		res, err := s.db.ExecContext(ctx, query, stmt.Args...)
		if err != nil {
			return domain.QueryOutcome{}, s.wrap("execute", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return domain.QueryOutcome{}, s.wrap("rows affected", err)
		}
		return domain.QueryOutcome{Affected: n}, nil
	}

	rows, err := s.db.QueryContext(ctx, query, stmt.Args...)
	if err != nil {
		return domain.QueryOutcome{}, s.wrap("query", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return domain.QueryOutcome{}, s.wrap("scan", err)
	}
	return domain.QueryOutcome{Rows: out, Affected: int64(len(out))}, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) bind(query string) string {
	if s.dialect.positional {
		return rebind(query)
	}
	return query
}

// wrap annotates err and, when the dialect recognizes it, joins the matching
// classification sentinel so callers can use errors.Is.
func (s *Store) wrap(op string, err error) error {
	if class := s.dialect.classify(err); class != nil {
		return fmt.Errorf("%s %s: %w: %w", s.dialect.name, op, class, err)
	}
	return fmt.Errorf("%s %s: %w", s.dialect.name, op, err)
}

func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []domain.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(domain.Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
