// Package sqlitestore implements seqstore.Store on a single SQLite file
// through the pure-Go modernc.org/sqlite driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed sequence library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ seqstore.Store = (*Store)(nil)

// Open opens (or creates) the library at dbPath and migrates its schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; one connection also keeps ":memory:" a
	// single database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Opened sequence library.", "path", dbPath)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS revisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		revision TEXT NOT NULL UNIQUE,
		fingerprint TEXT NOT NULL,
		spectrometer TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		document TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revisions_name ON revisions(name, id);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating sequence library: %w", err)
	}
	return nil
}

const selectColumns = `SELECT name, revision, fingerprint, spectrometer, saved_at, document FROM revisions`

func (s *Store) Save(ctx context.Context, spectrometer string, rec sequence.Record) (seqstore.Entry, error) {
	entry, err := seqstore.NewEntry(spectrometer, rec, s.now())
	if err != nil {
		return seqstore.Entry{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return seqstore.Entry{}, err
	}
	defer tx.Rollback()

	latest, err := scanEntry(tx.QueryRowContext(ctx, selectColumns+` WHERE name = ? ORDER BY id DESC LIMIT 1`, rec.Name))
	switch {
	case err == nil && latest.Fingerprint == entry.Fingerprint:
		ctxlog.FromContext(ctx).Debug("Sequence unchanged, keeping revision.", "sequence", rec.Name, "revision", latest.Revision)
		return latest, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return seqstore.Entry{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO revisions (name, revision, fingerprint, spectrometer, saved_at, document)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Name, entry.Revision.String(), entry.Fingerprint, entry.Spectrometer,
		entry.SavedAt.Format(time.RFC3339Nano), string(entry.Document),
	)
	if err != nil {
		return seqstore.Entry{}, fmt.Errorf("saving sequence %q: %w", rec.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return seqstore.Entry{}, err
	}
	ctxlog.FromContext(ctx).Debug("Saved sequence revision.", "sequence", rec.Name, "revision", entry.Revision)
	return entry, nil
}

func (s *Store) Get(ctx context.Context, name string) (seqstore.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE name = ? ORDER BY id DESC LIMIT 1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return seqstore.Entry{}, seqstore.NotFound(name)
	}
	return e, err
}

func (s *Store) List(ctx context.Context) ([]seqstore.Entry, error) {
	return s.query(ctx, selectColumns+`
		WHERE id IN (SELECT MAX(id) FROM revisions GROUP BY name)
		ORDER BY name`)
}

func (s *Store) History(ctx context.Context, name string) ([]seqstore.Entry, error) {
	entries, err := s.query(ctx, selectColumns+` WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, seqstore.NotFound(name)
	}
	return entries, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM revisions WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return seqstore.NotFound(name)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]seqstore.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []seqstore.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (seqstore.Entry, error) {
	var (
		e        seqstore.Entry
		revision string
		savedAt  string
		document string
	)
	if err := row.Scan(&e.Name, &revision, &e.Fingerprint, &e.Spectrometer, &savedAt, &document); err != nil {
		return seqstore.Entry{}, err
	}

	var err error
	if e.Revision, err = uuid.Parse(revision); err != nil {
		return seqstore.Entry{}, fmt.Errorf("stored revision of %q: %w", e.Name, err)
	}
	if e.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return seqstore.Entry{}, fmt.Errorf("stored timestamp of %q: %w", e.Name, err)
	}
	e.Document = []byte(document)
	return e, nil
}
