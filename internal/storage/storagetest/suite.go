// Package storagetest holds the contract suite every storage.Store backend
// must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/storage"
)

// Suite exercises a storage.Store. Open must return an empty store; it is
// called before every test.
type Suite struct {
	suite.Suite
	Open  func(t *testing.T) storage.Store
	store storage.Store
}

// SetupTest opens a fresh store.
func (s *Suite) SetupTest() {
	s.store = s.Open(s.T())
}

// TearDownTest closes the store.
func (s *Suite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *Suite) TestSaveThenLoad() {
	ctx := context.Background()
	meta, err := s.store.Save(ctx, "harbor", []byte{1, 2, 3})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, meta.ID)
	s.Equal("harbor", meta.Name)
	s.Equal(int64(3), meta.Size)
	s.False(meta.SavedAt.IsZero())

	got, err := s.store.Load(ctx, meta.ID)
	s.Require().NoError(err)
	s.Equal(meta.ID, got.ID)
	s.Equal("harbor", got.Name)
	s.Equal([]byte{1, 2, 3}, got.Data)
}

func (s *Suite) TestSaveReplacesSlot() {
	ctx := context.Background()
	first, err := s.store.Save(ctx, "slot1", []byte("old"))
	s.Require().NoError(err)
	second, err := s.store.Save(ctx, "slot1", []byte("newer"))
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(int64(5), second.Size)

	got, err := s.store.Load(ctx, first.ID)
	s.Require().NoError(err)
	s.Equal([]byte("newer"), got.Data)

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *Suite) TestSaveEmptyName() {
	_, err := s.store.Save(context.Background(), "", []byte{1})
	s.Error(err)
}

func (s *Suite) TestListOrderedByName() {
	ctx := context.Background()
	for _, name := range []string{"tortuga", "nassau", "port royal"} {
		_, err := s.store.Save(ctx, name, []byte(name))
		s.Require().NoError(err)
	}
	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("nassau", all[0].Name)
	s.Equal("port royal", all[1].Name)
	s.Equal("tortuga", all[2].Name)
	s.Equal(int64(len("tortuga")), all[2].Size)
}

func (s *Suite) TestListEmpty() {
	all, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *Suite) TestLoadMissing() {
	_, err := s.store.Load(context.Background(), uuid.New())
	s.ErrorIs(err, storage.ErrSaveNotFound)
}

func (s *Suite) TestDelete() {
	ctx := context.Background()
	meta, err := s.store.Save(ctx, "doomed", []byte{9})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Delete(ctx, meta.ID))

	_, err = s.store.Load(ctx, meta.ID)
	s.ErrorIs(err, storage.ErrSaveNotFound)
	s.ErrorIs(s.store.Delete(ctx, meta.ID), storage.ErrSaveNotFound)
}

func (s *Suite) TestGridRoundTrip() {
	ctx := context.Background()
	g, err := grid.NewMap(event.NewBus(), 5, 3, true)
	s.Require().NoError(err)
	for _, c := range g.Cells() {
		c.Land = false
	}
	g.CellAtOffset(1, 1).Land = true
	g.CellAtOffset(2, 2).Harbor = true
	g.CellAtOffset(4, 0).Traversable = false
	g.RecalculateBitmasks()

	meta, err := storage.SaveGrid(ctx, s.store, "islands", g)
	s.Require().NoError(err)

	got, err := storage.LoadGrid(ctx, s.store, meta.ID, event.NewBus())
	s.Require().NoError(err)
	s.Equal(5, got.Width())
	s.Equal(3, got.Height())
	s.True(got.CellAtOffset(1, 1).Land)
	s.False(got.CellAtOffset(3, 1).Land)
	s.True(got.CellAtOffset(2, 2).Harbor)
	s.False(got.CellAtOffset(4, 0).Traversable)
	s.Equal(g.CellAtOffset(2, 1).Bitmask, got.CellAtOffset(2, 1).Bitmask)
}

func (s *Suite) TestLoadGridMissing() {
	_, err := storage.LoadGrid(context.Background(), s.store, uuid.New(), nil)
	s.ErrorIs(err, storage.ErrSaveNotFound)
}
