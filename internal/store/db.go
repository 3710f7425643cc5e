package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"adpilot/internal/chat"

	// Drivers are linked here so callers only pass a DSN.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DBStore persists sessions as one JSON document per row. It speaks
// both postgres (driver "pgx") and sqlite (driver "sqlite").
type DBStore struct {
	db         *sql.DB
	driver     string
	schemaOnce sync.Once
	schemaErr  error
}

// OpenDB opens a database by driver name and DSN.
func OpenDB(driver, dsn string) (*DBStore, error) {
	switch driver {
	case "pgx", "sqlite":
	default:
		return nil, errors.Errorf("store: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "store: open database")
	}
	return &DBStore{db: db, driver: driver}, nil
}

// NewDBStore wraps an existing handle.
func NewDBStore(db *sql.DB, driver string) *DBStore {
	return &DBStore{db: db, driver: driver}
}

func (s *DBStore) Close() error { return s.db.Close() }

func (s *DBStore) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS chat_sessions (
    id TEXT PRIMARY KEY,
    doc TEXT NOT NULL,
    turns INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);
`)
	})
	return s.schemaErr
}

// rebind rewrites ? placeholders to $N for postgres.
func (s *DBStore) rebind(q string) string {
	if s.driver != "pgx" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *DBStore) Get(ctx context.Context, id string) (*chat.Session, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	var doc string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT doc FROM chat_sessions WHERE id = ?`), id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: query session")
	}
	var sess chat.Session
	if err := json.Unmarshal([]byte(doc), &sess); err != nil {
		return nil, errors.Wrap(err, "store: decode session")
	}
	return &sess, nil
}

func (s *DBStore) Put(ctx context.Context, sess *chat.Session) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	doc, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "store: encode session")
	}
	turns := len(sess.Transcript) / 2
	updated := sess.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO chat_sessions (id, doc, turns, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET doc = excluded.doc, turns = excluded.turns, updated_at = excluded.updated_at
`), sess.ID, string(doc), turns, updated)
	return errors.Wrap(err, "store: upsert session")
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM chat_sessions WHERE id = ?`), id)
	return errors.Wrap(err, "store: delete session")
}

func (s *DBStore) List(ctx context.Context) ([]chat.SessionSummary, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, turns, updated_at FROM chat_sessions`)
	if err != nil {
		return nil, errors.Wrap(err, "store: list sessions")
	}
	defer rows.Close()

	var out []chat.SessionSummary
	for rows.Next() {
		var row chat.SessionSummary
		if err := rows.Scan(&row.ID, &row.Turns, &row.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "store: scan session row")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
