package property

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	utils "github.com/Oikion/mvp-sub017/pkg/context"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
	"github.com/Oikion/mvp-sub017/pkg/validation"
)

// Repository is the property persistence used by the handlers
type Repository interface {
	Create(ctx context.Context, tenantID string, req models.CreatePropertyRequest) (*models.Property, error)
	Get(ctx context.Context, tenantID, id string) (*models.Property, error)
	List(ctx context.Context, tenantID string, page, pageSize int) ([]models.Property, int, error)
	SetActive(ctx context.Context, tenantID, id string, active bool) (*models.Property, error)
}

// Handler serves the property endpoints
type Handler struct {
	repo   Repository
	logger ectologger.Logger
}

// NewHandler creates a property handler
func NewHandler(repo Repository, logger ectologger.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Register registers property routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.ListProperties)
	g.GET("/:id", h.GetProperty)
	g.POST("", h.CreateProperty)
	g.DELETE("/:id", h.DeactivateProperty)
}

// ListProperties lists a page of properties for the tenant
func (h *Handler) ListProperties(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "property.ListProperties")
	defer span.End()

	tenantID := utils.GetTenantID(ctx)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	properties, total, err := h.repo.List(ctx, tenantID, page, pageSize)
	if err != nil {
		return err
	}
	if properties == nil {
		properties = []models.Property{}
	}

	return c.JSON(http.StatusOK, models.PropertyListResponse{
		Items:      properties,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetProperty gets a property by ID
func (h *Handler) GetProperty(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "property.GetProperty")
	defer span.End()

	property, err := h.repo.Get(ctx, utils.GetTenantID(ctx), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, property)
}

// CreateProperty creates a new property
func (h *Handler) CreateProperty(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "property.CreateProperty")
	defer span.End()

	req, err := validation.BindRequest[models.CreatePropertyRequest](c)
	if err != nil {
		return err
	}

	created, err := h.repo.Create(ctx, utils.GetTenantID(ctx), req)
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{"id": created.ID}).Info("Created property")

	return c.JSON(http.StatusCreated, created)
}

// DeactivateProperty removes a property from matching. The record is kept.
func (h *Handler) DeactivateProperty(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "property.DeactivateProperty")
	defer span.End()

	id := c.Param("id")
	if _, err := h.repo.SetActive(ctx, utils.GetTenantID(ctx), id, false); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deactivated property")

	return c.NoContent(http.StatusNoContent)
}
