package match

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	utils "github.com/Oikion/mvp-sub017/pkg/context"
	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
	"github.com/Oikion/mvp-sub017/pkg/validation"
)

// Service is the matching behaviour the handlers expose
type Service interface {
	ScoreOne(ctx context.Context, profile models.RequirementProfile, listing models.CandidateListing) models.MatchResult
	RankInline(ctx context.Context, profiles []models.RequirementProfile, listings []models.CandidateListing, req matching.RankRequest) ([]models.MatchResult, error)
	MatchesForClient(ctx context.Context, tenantID, clientID string, req matching.RankRequest, filters map[string]any) ([]models.MatchResult, error)
	MatchesForProperty(ctx context.Context, tenantID, propertyID string, req matching.RankRequest) ([]models.MatchResult, error)
}

// ScoreRequest scores one profile against one listing
type ScoreRequest struct {
	Profile models.RequirementProfile `json:"profile"`
	Listing models.CandidateListing   `json:"listing"`
}

// RankRequest ranks caller supplied profiles against caller supplied listings.
// Threshold and limit fall back to the configured defaults when omitted.
type RankRequest struct {
	Profiles []models.RequirementProfile `json:"profiles" validate:"dive"`
	Listings []models.CandidateListing   `json:"listings"`
	matching.RankRequest
}

// MatchListResponse is the API response for every ranking endpoint
type MatchListResponse struct {
	Items     []models.MatchResult `json:"items"`
	Threshold int                  `json:"threshold"`
	Limit     int                  `json:"limit"`
}

// Handler serves the matching endpoints
type Handler struct {
	service  Service
	defaults matching.RankRequest
}

// NewHandler creates a matching handler. defaults applies to requests that leave out
// threshold or limit.
func NewHandler(service Service, defaults matching.RankRequest) *Handler {
	return &Handler{service: service, defaults: defaults}
}

// Register registers matching routes on the API group
func (h *Handler) Register(g *echo.Group) {
	g.POST("/matches/score", h.Score)
	g.POST("/matches/rank", h.Rank)
	g.GET("/clients/:id/matches", h.ClientMatches)
	g.GET("/properties/:id/matches", h.PropertyMatches)
}

// Score scores a single pair
func (h *Handler) Score(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "match.Score")
	defer span.End()

	req, err := validation.BindRequest[ScoreRequest](c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.service.ScoreOne(ctx, req.Profile, req.Listing))
}

// Rank ranks inline profiles and listings
func (h *Handler) Rank(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "match.Rank")
	defer span.End()

	req := RankRequest{RankRequest: h.defaults}
	if err := c.Bind(&req); err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}
	if _, err := validation.Validate(req); err != nil {
		return err
	}

	results, err := h.service.RankInline(ctx, req.Profiles, req.Listings, req.RankRequest)
	if err != nil {
		return err
	}

	return h.respond(c, results, req.RankRequest)
}

// ClientMatches ranks the organization's active properties for a client.
// The optional filter query parameter holds listing conditions as JSON.
func (h *Handler) ClientMatches(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "match.ClientMatches")
	defer span.End()

	req, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	var filters map[string]any
	if raw := c.QueryParam("filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "filter must be a JSON object").AddMetaValue("field", "filter")
		}
	}

	results, err := h.service.MatchesForClient(ctx, utils.GetTenantID(ctx), c.Param("id"), req, filters)
	if err != nil {
		return err
	}

	return h.respond(c, results, req)
}

// PropertyMatches ranks the organization's active clients for a property
func (h *Handler) PropertyMatches(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "match.PropertyMatches")
	defer span.End()

	req, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	results, err := h.service.MatchesForProperty(ctx, utils.GetTenantID(ctx), c.Param("id"), req)
	if err != nil {
		return err
	}

	return h.respond(c, results, req)
}

func (h *Handler) bindQuery(c echo.Context) (matching.RankRequest, error) {
	req := h.defaults
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return req, httperror.NewHTTPError(http.StatusBadRequest, "threshold and limit must be integers")
	}
	return req, nil
}

func (h *Handler) respond(c echo.Context, results []models.MatchResult, req matching.RankRequest) error {
	if results == nil {
		results = []models.MatchResult{}
	}
	return c.JSON(http.StatusOK, MatchListResponse{
		Items:     results,
		Threshold: req.Threshold,
		Limit:     req.Limit,
	})
}
