package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/codiplaykz/blockly"
	"github.com/codiplaykz/blockly/serial"
)

// Record is one workspaces table row. List leaves State empty.
type Record struct {
	ID        string
	Name      string
	State     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists workspaces in a single database table.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open opens a database by driver name and DSN and wraps it in a Store.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return OpenDB(driver, db), nil
}

// OpenDB wraps an existing *sql.DB.
func OpenDB(driver string, db *sql.DB) *Store {
	return &Store{
		db:     db,
		driver: driver,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger.
func (s *Store) WithLogger(l *slog.Logger) *Store {
	if l != nil {
		s.logger = l
	}
	return s
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// dialect normalizes the driver name to one of the supported dialects.
// Registered driver names vary: sqlite vs sqlite3, postgres vs pgx.
func (s *Store) dialect() string {
	if strings.HasPrefix(s.driver, "pgx") {
		return "postgres"
	}
	for _, name := range []string{"sqlite", "mysql", "postgres"} {
		if strings.HasPrefix(s.driver, name) {
			return name
		}
	}
	return s.driver
}

// rebind rewrites ? placeholders to the $n form postgres expects.
func (s *Store) rebind(query string) string {
	if s.dialect() != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the workspaces table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	idType, nameType, blobType, tsType := "TEXT", "TEXT", "BLOB", "TIMESTAMP"
	switch s.dialect() {
	case "mysql":
		// TEXT columns cannot be keys without a prefix length.
		idType, nameType = "VARCHAR(36)", "VARCHAR(255)"
	case "postgres":
		blobType, tsType = "BYTEA", "TIMESTAMPTZ"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS workspaces (
	id %s PRIMARY KEY,
	name %s NOT NULL UNIQUE,
	state %s NOT NULL,
	created_at %s NOT NULL,
	updated_at %s NOT NULL
)`, idType, nameType, blobType, tsType, tsType)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("blockly: migrate workspaces table: %w", err)
	}
	s.logger.Debug("migrated workspaces table", "dialect", s.dialect())
	return nil
}

// Save upserts the workspace under its id, serialized through serial.
// A name collision with another workspace surfaces as *ConstraintError.
func (s *Store) Save(ctx context.Context, ws *blockly.Workspace, name string) error {
	state, err := serial.SaveWorkspace(ws)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE workspaces SET name = ?, state = ?, updated_at = ? WHERE id = ?"),
		name, state, now, ws.ID())
	if err != nil {
		return wrapConstraint("save", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = s.db.ExecContext(ctx,
			s.rebind("INSERT INTO workspaces (id, name, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
			ws.ID(), name, state, now, now)
		if err != nil {
			return wrapConstraint("save", err)
		}
	}
	s.logger.Debug("saved workspace", "id", ws.ID(), "name", name, "bytes", len(state))
	return nil
}

// Load rebuilds the stored workspace under its saved id. The serial codec
// is wired in as serializer; opts may add a checker, resolver, or replace
// the serializer. The load is silent, so the workspace starts with empty
// history.
func (s *Store) Load(ctx context.Context, id string, opts ...blockly.Option) (*blockly.Workspace, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT state FROM workspaces WHERE id = ?"), id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	ws := blockly.NewWorkspace(append([]blockly.Option{
		blockly.WithID(id),
		blockly.WithSerializer(serial.Codec{}),
	}, opts...)...)
	if err := serial.LoadWorkspace(state, ws); err != nil {
		return nil, err
	}
	s.logger.Debug("loaded workspace", "id", id, "blocks", ws.BlockCount())
	return ws, nil
}

// List returns every stored workspace ordered by name, without state
// blobs.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM workspaces ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the stored workspace. ErrNotFound when no row matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM workspaces WHERE id = ?"), id)
	if err != nil {
		return wrapConstraint("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.logger.Debug("deleted workspace", "id", id)
	return nil
}
