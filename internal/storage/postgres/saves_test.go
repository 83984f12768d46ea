package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/cory-johannsen/corsair/internal/storage"
	"github.com/cory-johannsen/corsair/internal/storage/postgres"
	"github.com/cory-johannsen/corsair/internal/storage/storagetest"
	"github.com/cory-johannsen/corsair/internal/testutil"
)

func TestSaveRepository(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	suite.Run(t, &storagetest.Suite{
		Open: func(t *testing.T) storage.Store {
			pc.Reset(t)
			return postgres.NewSaveRepository(pc.DB, nil)
		},
	})
}

func TestOpen(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	s, err := postgres.Open(ctx, pc.Config, nil)
	require.NoError(t, err)
	meta, err := s.Save(ctx, "nassau", []byte("sloop"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = postgres.Open(ctx, pc.Config, nil)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("sloop"), got.Data)
}

func TestOpen_SchemaMissing(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()
	_, err := pc.DB.Exec(ctx, `DROP TABLE saves`)
	require.NoError(t, err)

	_, err = postgres.Open(ctx, pc.Config, nil)
	assert.ErrorIs(t, err, postgres.ErrSchemaMissing)
}

func TestNewSaveRepository_NilPoolPanics(t *testing.T) {
	assert.Panics(t, func() { postgres.NewSaveRepository(nil, nil) })
}
