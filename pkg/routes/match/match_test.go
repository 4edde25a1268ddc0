package match

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/middleware"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/preferences"
)

type call struct {
	tenantID string
	id       string
	req      matching.RankRequest
	filters  map[string]any
}

// recordingService wraps a real engine and records how stored-entity endpoints were called
type recordingService struct {
	engine *matching.Engine
	calls  []call
}

func (s *recordingService) ScoreOne(_ context.Context, profile models.RequirementProfile, listing models.CandidateListing) models.MatchResult {
	return s.engine.Scorer().ScoreRaw(profile, listing)
}

func (s *recordingService) RankInline(_ context.Context, profiles []models.RequirementProfile, listings []models.CandidateListing, req matching.RankRequest) ([]models.MatchResult, error) {
	return s.engine.RankRaw(profiles, listings, req)
}

func (s *recordingService) MatchesForClient(_ context.Context, tenantID, clientID string, req matching.RankRequest, filters map[string]any) ([]models.MatchResult, error) {
	s.calls = append(s.calls, call{tenantID, clientID, req, filters})
	if clientID == "missing" {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "client %s not found", clientID)
	}
	return nil, nil
}

func (s *recordingService) MatchesForProperty(_ context.Context, tenantID, propertyID string, req matching.RankRequest) ([]models.MatchResult, error) {
	s.calls = append(s.calls, call{tenantID: tenantID, id: propertyID, req: req})
	return []models.MatchResult{{ProfileID: "c1", ListingID: propertyID, OverallScore: 100}}, nil
}

func setup() (*echo.Echo, *recordingService) {
	logger := ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
	svc := &recordingService{
		engine: matching.NewEngine(matching.NewScorer(preferences.NewDefaultExtractor(), matching.DefaultWeights())),
	}

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.HeaderAuth())
	NewHandler(svc, matching.RankRequest{Threshold: 10, Limit: 5}).Register(e.Group("/api/v1", middleware.RequireTenant()))
	return e, svc
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderTenantID, "org-1")
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestScore(t *testing.T) {
	e, _ := setup()

	body := `{
		"profile": {"id": "c1", "preferences": [
			{"type": "elevator", "value": true, "importance": "required"},
			{"type": "balcony", "value": true, "importance": "preferred"}
		]},
		"listing": {"id": "p1", "elevator": true}
	}`
	rec := do(e, http.MethodPost, "/api/v1/matches/score", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 60, result.OverallScore)
	assert.Equal(t, 1, result.MatchedCriteria)
	assert.Equal(t, 2, result.TotalCriteria)
}

func TestScore_InvalidPreference(t *testing.T) {
	e, _ := setup()

	body := `{"profile": {"id": "c1", "preferences": [{"type": "elevator", "value": true, "importance": "urgent"}]}, "listing": {"id": "p1"}}`
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/matches/score", body).Code)
}

func TestRank(t *testing.T) {
	e, _ := setup()

	body := `{
		"profiles": [{"id": "c1", "budget_max": 300000}],
		"listings": [{"id": "p1", "price": 250000}, {"id": "p2", "price": 400000}],
		"threshold": 50
	}`
	rec := do(e, http.MethodPost, "/api/v1/matches/rank", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MatchListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p1", resp.Items[0].ListingID)
	assert.Equal(t, 50, resp.Threshold)
	assert.Equal(t, 5, resp.Limit)
}

func TestRank_Validation(t *testing.T) {
	e, _ := setup()

	tests := []struct {
		name string
		body string
	}{
		{name: "threshold out of range", body: `{"threshold": 101}`},
		{name: "zero limit", body: `{"limit": 0}`},
		{name: "malformed body", body: `{"profiles": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/matches/rank", tt.body).Code)
		})
	}
}

func TestClientMatches(t *testing.T) {
	e, svc := setup()

	rec := do(e, http.MethodGet, `/api/v1/clients/c1/matches?limit=3&filter=%7B%22floor%22%3A%7B%22%24gte%22%3A1%7D%7D`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"threshold":10,"limit":3}`, rec.Body.String())
	require.Len(t, svc.calls, 1)
	assert.Equal(t, call{
		tenantID: "org-1",
		id:       "c1",
		req:      matching.RankRequest{Threshold: 10, Limit: 3},
		filters:  map[string]any{"floor": map[string]any{"$gte": float64(1)}},
	}, svc.calls[0])
}

func TestClientMatches_Errors(t *testing.T) {
	e, _ := setup()

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/clients/c1/matches?limit=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/clients/c1/matches?filter=nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/v1/clients/missing/matches", "").Code)
}

func TestPropertyMatches(t *testing.T) {
	e, svc := setup()

	rec := do(e, http.MethodGet, "/api/v1/properties/p9/matches?threshold=70", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MatchListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p9", resp.Items[0].ListingID)
	assert.Equal(t, matching.RankRequest{Threshold: 70, Limit: 5}, svc.calls[0].req)
}
