package client

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

// Repository is the client persistence used by the handlers
type Repository interface {
	Create(ctx context.Context, tenantID string, req models.CreateClientRequest) (*models.Client, error)
	Get(ctx context.Context, tenantID, id string) (*models.Client, error)
	List(ctx context.Context, tenantID string, page, pageSize int) ([]models.Client, int, error)
	SetActive(ctx context.Context, tenantID, id string, active bool) (*models.Client, error)
}

// Handler serves the client endpoints
type Handler struct {
	repo   Repository
	logger ectologger.Logger
}

// NewHandler creates a client handler
func NewHandler(repo Repository, logger ectologger.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Register registers client routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.ListClients)
	g.GET("/:id", h.GetClient)
	g.POST("", h.CreateClient)
	g.DELETE("/:id", h.DeactivateClient)
}

// ListClients lists a page of clients for the tenant
func (h *Handler) ListClients(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "client.ListClients")
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

	clients, total, err := h.repo.List(ctx, tenantID, page, pageSize)
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []models.Client{}
	}

	return c.JSON(http.StatusOK, models.ClientListResponse{
		Items:      clients,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetClient gets a client by ID
func (h *Handler) GetClient(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "client.GetClient")
	defer span.End()

	client, err := h.repo.Get(ctx, utils.GetTenantID(ctx), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, client)
}

// CreateClient creates a new client
func (h *Handler) CreateClient(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "client.CreateClient")
	defer span.End()

	req, err := validation.BindRequest[models.CreateClientRequest](c)
	if err != nil {
		return err
	}

	created, err := h.repo.Create(ctx, utils.GetTenantID(ctx), req)
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{"id": created.ID}).Info("Created client")

	return c.JSON(http.StatusCreated, created)
}

// DeactivateClient removes a client from matching. The record is kept.
func (h *Handler) DeactivateClient(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "client.DeactivateClient")
	defer span.End()

	id := c.Param("id")
	if _, err := h.repo.SetActive(ctx, utils.GetTenantID(ctx), id, false); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deactivated client")

	return c.NoContent(http.StatusNoContent)
}
