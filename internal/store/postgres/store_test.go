package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-upload-service/internal/menuimport/model"
	"menu-upload-service/internal/menuimport/service"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	s, err := Connect(context.Background(), dsn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateCategories_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rid := "test-" + uuid.NewString()

	first, err := s.CreateCategories(ctx, rid, []string{"Mains", "Drinks"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	again, err := s.CreateCategories(ctx, rid, []string{"mains", "Desserts"})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, first[0].ID, again[0].ID)
	assert.Equal(t, "Mains", again[0].Name)

	list, err := s.ListCategories(ctx, rid)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUploader_WithPostgres(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rid := "test-" + uuid.NewString()

	u := service.NewUploader(s, zerolog.Nop())
	res, err := u.Upload(ctx, rid, []model.ParsedRow{
		{Name: "Pizza", Category: "Mains", Price: 10},
		{Name: "Pizza", Category: "MAINS", Price: 10},
		{Name: "Bread", Price: 2.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Success)
	assert.Zero(t, res.Failed)

	list, err := s.ListCategories(ctx, rid)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
