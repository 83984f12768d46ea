package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/storage"
)

// SaveRepository stores savefile streams in the saves table.
type SaveRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool, logger *zap.Logger) *SaveRepository {
	if db == nil {
		panic("postgres.NewSaveRepository: db must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaveRepository{db: db, logger: logger}
}

// Save upserts data into the slot called name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the slot metadata; an existing slot keeps its id.
func (r *SaveRepository) Save(ctx context.Context, name string, data []byte) (storage.SaveMeta, error) {
	if name == "" {
		return storage.SaveMeta{}, errors.New("postgres.SaveRepository.Save: name must not be empty")
	}
	var m storage.SaveMeta
	err := r.db.QueryRow(ctx, `
		INSERT INTO saves (id, name, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
			SET data = EXCLUDED.data, saved_at = NOW()
		RETURNING id, name, saved_at, octet_length(data)`,
		uuid.New(), name, data,
	).Scan(&m.ID, &m.Name, &m.SavedAt, &m.Size)
	if err != nil {
		return storage.SaveMeta{}, fmt.Errorf("postgres.SaveRepository.Save: %w", err)
	}
	r.logger.Debug("save written", zap.String("name", name), zap.Stringer("id", m.ID), zap.Int64("bytes", m.Size))
	return m, nil
}

// Load retrieves a save by id.
//
// Postcondition: Returns the Save or storage.ErrSaveNotFound.
func (r *SaveRepository) Load(ctx context.Context, id uuid.UUID) (storage.Save, error) {
	var s storage.Save
	err := r.db.QueryRow(ctx, `
		SELECT id, name, saved_at, octet_length(data), data
		FROM saves WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.SavedAt, &s.Size, &s.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Save{}, storage.ErrSaveNotFound
		}
		return storage.Save{}, fmt.Errorf("postgres.SaveRepository.Load: %w", err)
	}
	return s, nil
}

// List returns metadata for every save, ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) List(ctx context.Context) ([]storage.SaveMeta, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, saved_at, octet_length(data)
		FROM saves ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("postgres.SaveRepository.List: %w", err)
	}
	defer rows.Close()

	metas := make([]storage.SaveMeta, 0)
	for rows.Next() {
		var m storage.SaveMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.SavedAt, &m.Size); err != nil {
			return nil, fmt.Errorf("postgres.SaveRepository.List: scanning row: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a save by id.
//
// Postcondition: Returns nil on success or storage.ErrSaveNotFound.
func (r *SaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres.SaveRepository.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrSaveNotFound
	}
	r.logger.Debug("save deleted", zap.Stringer("id", id))
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (r *SaveRepository) Close() error { return nil }

var _ storage.Store = (*SaveRepository)(nil)
