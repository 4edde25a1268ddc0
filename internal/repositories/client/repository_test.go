package client

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

	created, err := repo.Create(ctx, "org-1", models.CreateClientRequest{
		Name:          "Maria P.",
		BudgetMin:     ptr(200000.0),
		BudgetMax:     ptr(300000.0),
		Locations:     []string{"Κολωνάκι", "Pangrati"},
		PropertyTypes: []string{"apartment"},
		MinBedrooms:   ptr(2),
		Notes:         ptr("I must have a balcony and prefer a sea view"),
		Preferences: []models.ExtractedPreference{
			{Type: models.PreferenceElevator, Value: true, Importance: models.ImportanceRequired},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.IntentBuy, created.Intent)
	assert.Equal(t, "EUR", created.Currency)
	assert.True(t, created.IsActive)

	got, err := repo.Get(ctx, "org-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria P.", got.Name)
	assert.Equal(t, []string{"Κολωνάκι", "Pangrati"}, got.Locations.Data)
	assert.Equal(t, created.Preferences.Data, got.Preferences.Data)
	require.NotNil(t, got.BudgetMax)
	assert.Equal(t, 300000.0, *got.BudgetMax)
	require.NotNil(t, got.MinBedrooms)
	assert.Equal(t, 2, *got.MinBedrooms)
	assert.Nil(t, got.MinBathrooms)

	profile := got.ToProfile()
	assert.Equal(t, created.ID, profile.ID)
	assert.True(t, profile.HasNotes())
}

func TestRepository_TenantScoping(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "org-1", models.CreateClientRequest{Name: "A"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "org-2", created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))

	clients, err := repo.ListActive(ctx, "org-2")
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestRepository_ListActive(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, "org-1", models.CreateClientRequest{Name: "First"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, "org-1", models.CreateClientRequest{Name: "Second"})
	require.NoError(t, err)

	_, err = repo.SetActive(ctx, "org-1", first.ID, false)
	require.NoError(t, err)

	active, err := repo.ListActive(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	all, total, err := repo.List(ctx, "org-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}

func TestRepository_SetActiveMissing(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.SetActive(context.Background(), "org-1", "missing", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}
