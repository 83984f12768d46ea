// Package sqlite provides local save slots in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/corsair/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	id       TEXT    PRIMARY KEY,
	name     TEXT    NOT NULL UNIQUE,
	data     BLOB    NOT NULL,
	saved_at INTEGER NOT NULL
);
`

// Store is a storage.Store over a SQLite database.
type Store struct {
	conn   *sqlx.DB
	logger *zap.Logger
}

type saveRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	SavedAt int64  `db:"saved_at"`
	Size    int64  `db:"size"`
	Data    []byte `db:"data"`
}

func (r saveRow) meta() (storage.SaveMeta, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return storage.SaveMeta{}, fmt.Errorf("parsing save id %q: %w", r.ID, err)
	}
	return storage.SaveMeta{
		ID:      id,
		Name:    r.Name,
		SavedAt: time.UnixMilli(r.SavedAt).UTC(),
		Size:    r.Size,
	}, nil
}

// Open opens or creates the database at path with WAL journaling and a busy
// timeout, and creates the saves table.
//
// Postcondition: Returns an open Store or a non-nil error.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	// One writer at a time.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite.Open: creating schema: %w", err)
	}
	return &Store{conn: conn, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Save upserts data into the slot called name.
//
// Precondition: name must be non-empty.
// Postcondition: an existing slot keeps its id; SavedAt is refreshed.
func (s *Store) Save(ctx context.Context, name string, data []byte) (storage.SaveMeta, error) {
	if name == "" {
		return storage.SaveMeta{}, errors.New("sqlite.Store.Save: name must not be empty")
	}
	if data == nil {
		data = []byte{}
	}
	var row saveRow
	err := s.conn.GetContext(ctx, &row, `
		INSERT INTO saves (id, name, data, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE
			SET data = excluded.data, saved_at = excluded.saved_at
		RETURNING id, name, saved_at, length(data) AS size`,
		uuid.NewString(), name, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return storage.SaveMeta{}, fmt.Errorf("sqlite.Store.Save: %w", err)
	}
	m, err := row.meta()
	if err != nil {
		return storage.SaveMeta{}, fmt.Errorf("sqlite.Store.Save: %w", err)
	}
	s.logger.Debug("save written", zap.String("name", name), zap.Stringer("id", m.ID), zap.Int64("bytes", m.Size))
	return m, nil
}

// Load retrieves a save by id or returns storage.ErrSaveNotFound.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (storage.Save, error) {
	var row saveRow
	err := s.conn.GetContext(ctx, &row, `
		SELECT id, name, saved_at, length(data) AS size, data
		FROM saves WHERE id = ?`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Save{}, storage.ErrSaveNotFound
		}
		return storage.Save{}, fmt.Errorf("sqlite.Store.Load: %w", err)
	}
	m, err := row.meta()
	if err != nil {
		return storage.Save{}, fmt.Errorf("sqlite.Store.Load: %w", err)
	}
	return storage.Save{SaveMeta: m, Data: row.Data}, nil
}

// List returns metadata for every save, ordered by name.
func (s *Store) List(ctx context.Context) ([]storage.SaveMeta, error) {
	var rows []saveRow
	err := s.conn.SelectContext(ctx, &rows, `
		SELECT id, name, saved_at, length(data) AS size
		FROM saves ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Store.List: %w", err)
	}
	metas := make([]storage.SaveMeta, 0, len(rows))
	for _, row := range rows {
		m, err := row.meta()
		if err != nil {
			return nil, fmt.Errorf("sqlite.Store.List: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, nil
}

// Delete removes a save by id or returns storage.ErrSaveNotFound.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("sqlite.Store.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite.Store.Delete: %w", err)
	}
	if n == 0 {
		return storage.ErrSaveNotFound
	}
	s.logger.Debug("save deleted", zap.Stringer("id", id))
	return nil
}

var _ storage.Store = (*Store)(nil)
