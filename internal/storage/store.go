// Package storage defines the save-slot contract shared by the Postgres and
// SQLite backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/savefile"
)

// ErrSaveNotFound is returned when a save lookup yields no results.
var ErrSaveNotFound = errors.New("save not found")

// SaveMeta describes a stored save without its payload.
type SaveMeta struct {
	ID      uuid.UUID
	Name    string
	SavedAt time.Time
	Size    int64
}

// Save is a stored savefile stream and its metadata.
type Save struct {
	SaveMeta
	Data []byte
}

// Store persists savefile streams in named slots.
type Store interface {
	// Save writes data under name, replacing any previous save in that slot.
	// The slot keeps its ID across replacements.
	//
	// Precondition: name must be non-empty.
	Save(ctx context.Context, name string, data []byte) (SaveMeta, error)
	// Load returns the save with the given ID or ErrSaveNotFound.
	Load(ctx context.Context, id uuid.UUID) (Save, error)
	// List returns every save ordered by name.
	List(ctx context.Context) ([]SaveMeta, error)
	// Delete removes the save with the given ID or returns ErrSaveNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// SaveGrid encodes g with savefile and stores it under name.
func SaveGrid(ctx context.Context, s Store, name string, g *grid.Grid) (SaveMeta, error) {
	data, err := savefile.Marshal(g)
	if err != nil {
		return SaveMeta{}, fmt.Errorf("storage.SaveGrid: %w", err)
	}
	meta, err := s.Save(ctx, name, data)
	if err != nil {
		return SaveMeta{}, fmt.Errorf("storage.SaveGrid: %w", err)
	}
	return meta, nil
}

// LoadGrid loads the save with the given ID and decodes it onto a new grid
// publishing to events.
func LoadGrid(ctx context.Context, s Store, id uuid.UUID, events *event.Bus) (*grid.Grid, error) {
	save, err := s.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadGrid: %w", err)
	}
	g, err := savefile.Unmarshal(save.Data, events)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadGrid %q: %w", save.Name, err)
	}
	return g, nil
}
