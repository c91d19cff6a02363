package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// openTestSQLite opens a file-backed SQLite store under t.TempDir.
func openTestSQLite(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "users.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type SQLiteStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.store = openTestSQLite(s.T())
	s.ctx = context.Background()
}

func (s *SQLiteStoreSuite) insert(username string) domain.QueryOutcome {
	out, err := s.store.Execute(s.ctx, domain.Statement{
		Query:   `INSERT INTO users (username, password_hash, role, user_data) VALUES (?, ?, ?, ?) RETURNING id`,
		Args:    []any{username, "hash", "member", `{"contact":{"email":"a@b.com"}}`},
		Returns: true,
	})
	s.Require().NoError(err)
	return out
}

func (s *SQLiteStoreSuite) TestEnsureSchemaIsIdempotent() {
	s.NoError(s.store.EnsureSchema(s.ctx))
	s.NoError(s.store.EnsureSchema(s.ctx))
	s.Equal(DriverSQLite, s.store.Driver())
}

func (s *SQLiteStoreSuite) TestCheckExists() {
	s.Run("missing row", func() {
		ok, err := s.store.CheckExists(s.ctx, "users", "username", "alice")
		s.NoError(err)
		s.False(ok)
	})

	s.Run("present row", func() {
		s.insert("alice")
		ok, err := s.store.CheckExists(s.ctx, "users", "username", "alice")
		s.NoError(err)
		s.True(ok)
	})

	s.Run("value is bound, not interpolated", func() {
		ok, err := s.store.CheckExists(s.ctx, "users", "username", "x' OR '1'='1")
		s.NoError(err)
		s.False(ok)
	})

	s.Run("identifiers are validated", func() {
		_, err := s.store.CheckExists(s.ctx, "users; DROP TABLE users", "username", "alice")
		s.ErrorIs(err, ErrInvalidIdentifier)
		_, err = s.store.CheckExists(s.ctx, "users", "Username", "alice")
		s.ErrorIs(err, ErrInvalidIdentifier)
	})
}

func (s *SQLiteStoreSuite) TestExecuteReturningRows() {
	out := s.insert("bob")
	s.EqualValues(1, out.Affected)
	s.Require().Len(out.Rows, 1)
	s.EqualValues(1, out.Rows[0]["id"])

	found, err := s.store.Execute(s.ctx, domain.Statement{
		Query:   `SELECT username, CAST(user_data AS TEXT) AS user_data FROM users WHERE id = ?`,
		Args:    []any{out.Rows[0]["id"]},
		Returns: true,
	})
	s.Require().NoError(err)
	s.Require().Len(found.Rows, 1)
	s.Equal("bob", found.Rows[0]["username"])
	s.JSONEq(`{"contact":{"email":"a@b.com"}}`, found.Rows[0]["user_data"].(string))
}

func (s *SQLiteStoreSuite) TestExecuteWithoutRows() {
	s.insert("carol")
	out, err := s.store.Execute(s.ctx, domain.Statement{
		Query: `UPDATE users SET role = ? WHERE username = ?`,
		Args:  []any{"admin", "carol"},
	})
	s.NoError(err)
	s.EqualValues(1, out.Affected)
	s.Empty(out.Rows)
}

func (s *SQLiteStoreSuite) TestUniqueViolationIsClassified() {
	s.insert("dave")
	_, err := s.store.Execute(s.ctx, domain.Statement{
		Query: `INSERT INTO users (username, password_hash, role, user_data) VALUES (?, ?, ?, ?)`,
		Args:  []any{"dave", "hash", "member", `{}`},
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrUniqueViolation)
}

func (s *SQLiteStoreSuite) TestOnConflictDoNothingAffectsNoRows() {
	s.insert("erin")
	out, err := s.store.Execute(s.ctx, domain.Statement{
		Query:   `INSERT INTO users (username, password_hash, role, user_data) VALUES (?, ?, ?, ?) ON CONFLICT (username) DO NOTHING RETURNING id`,
		Args:    []any{"erin", "hash", "member", `{}`},
		Returns: true,
	})
	s.NoError(err)
	s.EqualValues(0, out.Affected)
	s.Empty(out.Rows)
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := Open(context.Background(), Config{Driver: DriverSQLite}); err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestRebind(t *testing.T) {
	cases := map[string]string{
		`SELECT 1`:                                 `SELECT 1`,
		`SELECT * FROM users WHERE id = ?`:         `SELECT * FROM users WHERE id = $1`,
		`INSERT INTO t (a, b, c) VALUES (?, ?, ?)`: `INSERT INTO t (a, b, c) VALUES ($1, $2, $3)`,
	}
	for in, want := range cases {
		if got := rebind(in); got != want {
			t.Errorf("rebind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("/tmp/a.db"); got != "/tmp/a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)" {
		t.Fatalf("unexpected dsn: %s", got)
	}
	if got := sqliteDSN("/tmp/a.db?_pragma=busy_timeout(100)"); got != "/tmp/a.db?_pragma=busy_timeout(100)" {
		t.Fatalf("explicit pragmas must be kept: %s", got)
	}
}
