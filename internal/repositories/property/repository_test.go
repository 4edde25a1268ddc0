package property

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/database/databasetest"
	"github.com/Oikion/mvp-sub017/pkg/models"
)

func newRepository(t *testing.T) *Repository {
	return NewRepository(databasetest.New(t), ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}))
}

func ptr[T any](v T) *T {
	return &v
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "org-1", models.CreatePropertyRequest{
		Title:        "Bright flat in Kolonaki",
		Price:        ptr(250000.0),
		Location:     ptr("Kolonaki"),
		Bedrooms:     ptr(2),
		PropertyType: ptr("apartment"),
		Floor:        ptr(3),
		Elevator:     ptr(true),
		Amenities:    map[string]any{"balcony": true, "parking": false},
		Description:  ptr("Ανακαινισμένο διαμέρισμα με θέα στη θάλασσα"),
		Condition:    ptr("very good"),
		Attributes:   map[string]any{"features": map[string]any{"heating": "autonomous"}},
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "org-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bright flat in Kolonaki", got.Title)
	require.NotNil(t, got.Elevator)
	assert.True(t, *got.Elevator)
	assert.Equal(t, map[string]any{"balcony": true, "parking": false}, got.Amenities.Data)
	require.NotNil(t, got.Condition)
	assert.Equal(t, "very good", *got.Condition)
	assert.Nil(t, got.Bathrooms)

	listing := got.ToListing()
	assert.Equal(t, created.ID, listing.ID)
	assert.Equal(t, "autonomous", listing.Attributes["features"].(map[string]any)["heating"])
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.Get(context.Background(), "org-1", "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestRepository_ListActive(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	kolonaki, err := repo.Create(ctx, "org-1", models.CreatePropertyRequest{Title: "A", Location: ptr("Kolonaki")})
	require.NoError(t, err)
	glyfada, err := repo.Create(ctx, "org-1", models.CreatePropertyRequest{Title: "B", Location: ptr("Glyfada")})
	require.NoError(t, err)
	inactive, err := repo.Create(ctx, "org-1", models.CreatePropertyRequest{Title: "C", Location: ptr("Kolonaki")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "org-2", models.CreatePropertyRequest{Title: "D", Location: ptr("Kolonaki")})
	require.NoError(t, err)

	_, err = repo.SetActive(ctx, "org-1", inactive.ID, false)
	require.NoError(t, err)

	all, err := repo.ListActive(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.ElementsMatch(t, []string{kolonaki.ID, glyfada.ID}, []string{all[0].ID, all[1].ID})

	filtered, err := repo.ListActive(ctx, "org-1", "Kolonaki")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, kolonaki.ID, filtered[0].ID)

	page, total, err := repo.List(ctx, "org-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)
}
