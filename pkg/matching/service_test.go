package matching

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/criteria"
	"github.com/Oikion/mvp-sub017/pkg/database"
	"github.com/Oikion/mvp-sub017/pkg/events"
	"github.com/Oikion/mvp-sub017/pkg/models"
)

type fakeClients struct {
	clients []models.Client
}

func (f *fakeClients) Get(_ context.Context, tenantID, id string) (*models.Client, error) {
	for _, c := range f.clients {
		if c.OrganizationID == tenantID && c.ID == id {
			return &c, nil
		}
	}
	return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "client %s not found", id)
}

func (f *fakeClients) ListActive(_ context.Context, tenantID string) ([]models.Client, error) {
	var out []models.Client
	for _, c := range f.clients {
		if c.OrganizationID == tenantID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeProperties struct {
	properties []models.Property
	listErr    error
}

func (f *fakeProperties) Get(_ context.Context, tenantID, id string) (*models.Property, error) {
	for _, p := range f.properties {
		if p.OrganizationID == tenantID && p.ID == id {
			return &p, nil
		}
	}
	return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "property %s not found", id)
}

func (f *fakeProperties) ListActive(_ context.Context, tenantID string, _ ...string) ([]models.Property, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Property
	for _, p := range f.properties {
		if p.OrganizationID == tenantID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]models.ExtractedPreference
	gets    int
	sets    int
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]models.ExtractedPreference{}}
}

func (f *fakeCache) Get(_ context.Context, text string) ([]models.ExtractedPreference, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	prefs, ok := f.entries[text]
	return prefs, ok, nil
}

func (f *fakeCache) Set(_ context.Context, text string, prefs []models.ExtractedPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.entries[text] = prefs
	return nil
}

type fakePublisher struct {
	events []*events.MatchesRankedEvent
	err    error
}

func (f *fakePublisher) PublishMatchesRanked(_ context.Context, event *events.MatchesRankedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func storeFixtures() (*fakeClients, *fakeProperties) {
	clients := &fakeClients{clients: []models.Client{
		{
			ID:             "c1",
			OrganizationID: "org-1",
			Name:           "Maria",
			BudgetMax:      ptr(300000.0),
			Notes:          ptr("We need an elevator"),
			IsActive:       true,
		},
		{
			ID:             "c2",
			OrganizationID: "org-1",
			Name:           "Nikos",
			Locations:      database.NewJSONB([]string{"Glyfada"}),
			IsActive:       true,
		},
		{
			ID:             "c3",
			OrganizationID: "org-1",
			Name:           "Inactive",
			IsActive:       false,
		},
		{
			ID:             "c4",
			OrganizationID: "org-2",
			Name:           "Other tenant",
			IsActive:       true,
		},
	}}
	properties := &fakeProperties{properties: []models.Property{
		{
			ID:             "p1",
			OrganizationID: "org-1",
			Price:          ptr(250000.0),
			Location:       ptr("Γλυφάδα"),
			Floor:          ptr(3),
			Elevator:       ptr(true),
			IsActive:       true,
		},
		{
			ID:             "p2",
			OrganizationID: "org-1",
			Price:          ptr(280000.0),
			Location:       ptr("Kifisia"),
			Floor:          ptr(0),
			Elevator:       ptr(false),
			IsActive:       true,
		},
		{
			ID:             "p3",
			OrganizationID: "org-2",
			Price:          ptr(100000.0),
			IsActive:       true,
		},
	}}
	return clients, properties
}

func TestService_MatchesForClient(t *testing.T) {
	clients, properties := storeFixtures()
	publisher := &fakePublisher{}
	s := NewService(testLogger(), newTestEngine(), clients, properties, newFakeCache(), publisher)

	results, err := s.MatchesForClient(context.Background(), "org-1", "c1", DefaultRankRequest(), nil)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].ListingID)
	assert.Equal(t, 100, results[0].OverallScore)
	assert.Equal(t, "p2", results[1].ListingID)
	assert.Equal(t, 50, results[1].OverallScore)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, events.EventMatchesRanked, event.EventType)
	assert.Equal(t, "org-1", event.TenantID)
	assert.Equal(t, events.SubjectClient, event.SubjectType)
	assert.Equal(t, "c1", event.SubjectID)
	assert.Len(t, event.Matches, 2)
}

func TestService_MatchesForClient_Filters(t *testing.T) {
	clients, properties := storeFixtures()
	s := NewService(testLogger(), newTestEngine(), clients, properties, nil, nil)

	results, err := s.MatchesForClient(context.Background(), "org-1", "c1", DefaultRankRequest(), map[string]any{
		"floor": map[string]any{"$gte": 1},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ListingID)
}

func TestService_MatchesForClient_Errors(t *testing.T) {
	t.Run("client of another tenant", func(t *testing.T) {
		clients, properties := storeFixtures()
		s := NewService(testLogger(), newTestEngine(), clients, properties, nil, nil)

		_, err := s.MatchesForClient(context.Background(), "org-1", "c4", DefaultRankRequest(), nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})

	t.Run("invalid request is rejected before loading", func(t *testing.T) {
		clients, properties := storeFixtures()
		properties.listErr = errors.New("should not be called")
		s := NewService(testLogger(), newTestEngine(), clients, properties, nil, nil)

		_, err := s.MatchesForClient(context.Background(), "org-1", "c1", RankRequest{Limit: 0}, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})

	t.Run("load failure", func(t *testing.T) {
		clients, properties := storeFixtures()
		properties.listErr = httperror.NewHTTPError(http.StatusInternalServerError, "failed to list properties")
		s := NewService(testLogger(), newTestEngine(), clients, properties, nil, nil)

		_, err := s.MatchesForClient(context.Background(), "org-1", "c1", DefaultRankRequest(), nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
	})

	t.Run("publish failure does not fail the ranking", func(t *testing.T) {
		clients, properties := storeFixtures()
		publisher := &fakePublisher{err: errors.New("broker down")}
		s := NewService(testLogger(), newTestEngine(), clients, properties, nil, publisher)

		results, err := s.MatchesForClient(context.Background(), "org-1", "c1", DefaultRankRequest(), nil)
		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Len(t, publisher.events, 1)
	})
}

func TestService_MatchesForProperty(t *testing.T) {
	clients, properties := storeFixtures()
	publisher := &fakePublisher{}
	s := NewService(testLogger(), newTestEngine(), clients, properties, nil, publisher)

	results, err := s.MatchesForProperty(context.Background(), "org-1", "p1", RankRequest{Threshold: 50, Limit: 5})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []string{"c1", "c2"}, []string{results[0].ProfileID, results[1].ProfileID})
	for _, r := range results {
		assert.Equal(t, "p1", r.ListingID)
		assert.Equal(t, 100, r.OverallScore)
	}

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.SubjectProperty, publisher.events[0].SubjectType)
	assert.Equal(t, "p1", publisher.events[0].SubjectID)
}

func TestService_ExtractPreferences(t *testing.T) {
	text := "I must have a balcony and prefer a sea view, no pets needed"

	t.Run("results are cached", func(t *testing.T) {
		cache := newFakeCache()
		s := NewService(testLogger(), newTestEngine(), nil, nil, cache, nil)

		first := s.ExtractPreferences(context.Background(), text)
		second := s.ExtractPreferences(context.Background(), text)

		assert.Equal(t, first, second)
		assert.Len(t, first, 2)
		assert.Equal(t, 2, cache.gets)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("cache errors fall back to extraction", func(t *testing.T) {
		cache := newFakeCache()
		cache.getErr = errors.New("redis down")
		s := NewService(testLogger(), newTestEngine(), nil, nil, cache, nil)

		prefs := s.ExtractPreferences(context.Background(), text)
		assert.Len(t, prefs, 2)
	})

	t.Run("without a cache", func(t *testing.T) {
		s := NewService(testLogger(), newTestEngine(), nil, nil, nil, nil)
		assert.Equal(t, newTestEngine().Scorer().Extractor().Extract(text), s.ExtractPreferences(context.Background(), text))
	})
}

func TestService_RankInline(t *testing.T) {
	s := NewService(testLogger(), newTestEngine(), nil, nil, newFakeCache(), nil)
	profiles, listings := rankFixtures()

	results, err := s.RankInline(context.Background(), profiles, listings, RankRequest{Threshold: 50, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []pair{{"c3", "p1", 100}, {"c1", "p1", 100}}, pairs(results))

	_, err = s.RankInline(context.Background(), profiles, listings, RankRequest{Threshold: 200, Limit: 2})
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestService_ScoreOne(t *testing.T) {
	s := NewService(testLogger(), newTestEngine(), nil, nil, nil, nil)

	result := s.ScoreOne(context.Background(), models.RequirementProfile{
		ID:          "c1",
		Preferences: []models.ExtractedPreference{explicit(models.PreferenceElevator, true, models.ImportanceRequired), explicit(models.PreferenceBalcony, true, models.ImportancePreferred)},
	}, models.CandidateListing{ID: "p1", Elevator: ptr(true)})

	assert.Equal(t, 60, result.OverallScore)
}

func TestFilterFields(t *testing.T) {
	fields := FilterFields(models.CandidateListing{
		ID:         "p1",
		Price:      ptr(100.0),
		Floor:      ptr(2),
		Attributes: map[string]any{"energy": map[string]any{"class": "A"}},
	})

	assert.Equal(t, 100.0, fields["price"])
	assert.Equal(t, 2, fields["floor"])
	assert.NotContains(t, fields, "location")
	assert.True(t, criteria.MatchesCriteria(fields, map[string]any{"attributes.energy.class": "A"}))
}
