package preferences

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
	"github.com/Oikion/mvp-sub017/pkg/validation"
)

// Extractor turns free text into preferences
type Extractor interface {
	ExtractPreferences(ctx context.Context, text string) []models.ExtractedPreference
}

// ExtractRequest is the body of an extraction request
type ExtractRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// ExtractResponse lists the preferences found in the text
type ExtractResponse struct {
	Preferences []models.ExtractedPreference `json:"preferences"`
}

// KindsResponse lists the preference vocabulary
type KindsResponse struct {
	Kinds       []models.PreferenceKind `json:"kinds"`
	Importances []models.Importance     `json:"importances"`
}

// Handler serves the preference endpoints
type Handler struct {
	extractor Extractor
}

// NewHandler creates a preference handler
func NewHandler(extractor Extractor) *Handler {
	return &Handler{extractor: extractor}
}

// Register registers preference routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/extract", h.Extract)
	g.GET("/kinds", h.Kinds)
}

// Extract extracts preferences from the posted text
func (h *Handler) Extract(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "preferences.Extract")
	defer span.End()

	req, err := validation.BindRequest[ExtractRequest](c)
	if err != nil {
		return err
	}

	prefs := h.extractor.ExtractPreferences(ctx, req.Text)
	if prefs == nil {
		prefs = []models.ExtractedPreference{}
	}

	return c.JSON(http.StatusOK, ExtractResponse{Preferences: prefs})
}

// Kinds returns the closed preference vocabulary
func (h *Handler) Kinds(c echo.Context) error {
	return c.JSON(http.StatusOK, KindsResponse{
		Kinds:       models.PreferenceKinds(),
		Importances: []models.Importance{models.ImportanceRequired, models.ImportancePreferred, models.ImportanceNiceToHave},
	})
}
