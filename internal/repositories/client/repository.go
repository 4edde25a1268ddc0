package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Oikion/mvp-sub017/pkg/database"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
)

const table = "clients"

var columns = []string{
	"id", "organization_id", "name", "intent", "budget_min", "budget_max", "currency", "locations",
	"property_types", "min_bedrooms", "min_bathrooms", "notes", "preferences", "is_active",
	"created_at", "updated_at",
}

// Repository handles client persistence. Every query is scoped to an organization.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new client repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new active client
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateClientRequest) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Create",
		"tenant_id": tenantID,
	})

	now := time.Now().UTC()
	c := &models.Client{
		ID:             uuid.New().String(),
		OrganizationID: tenantID,
		Name:           req.Name,
		Intent:         req.Intent,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Currency:       req.Currency,
		Locations:      database.NewJSONB(req.Locations),
		PropertyTypes:  database.NewJSONB(req.PropertyTypes),
		MinBedrooms:    req.MinBedrooms,
		MinBathrooms:   req.MinBathrooms,
		Notes:          req.Notes,
		Preferences:    database.NewJSONB(req.Preferences),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.Intent == "" {
		c.Intent = models.IntentBuy
	}
	if c.Currency == "" {
		c.Currency = "EUR"
	}

	sb := r.db.Flavor().NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(c.ID, c.OrganizationID, c.Name, c.Intent, c.BudgetMin, c.BudgetMax, c.Currency, c.Locations,
		c.PropertyTypes, c.MinBedrooms, c.MinBathrooms, c.Notes, c.Preferences, c.IsActive,
		c.CreatedAt, c.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create client")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create client")
	}

	log.WithFields(map[string]any{"id": c.ID}).Info("Created client")
	return c, nil
}

// Get retrieves a client by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.Get")
	defer span.End()

	sb := r.db.Flavor().NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("organization_id", tenantID),
	)

	query, args := sb.Build()
	var c models.Client
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		if database.IsNoRows(err) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("client %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get client")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get client")
	}

	return &c, nil
}

// ListActive returns every active client of the organization, oldest first
func (r *Repository) ListActive(ctx context.Context, tenantID string) ([]models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.ListActive")
	defer span.End()

	sb := r.db.Flavor().NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("organization_id", tenantID),
		sb.Equal("is_active", true),
	)
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()
	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list active clients")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list clients")
	}

	return clients, nil
}

// List returns one page of the organization's clients and the total count
func (r *Repository) List(ctx context.Context, tenantID string, page, pageSize int) ([]models.Client, int, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	countSb := r.db.Flavor().NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(table)
	countSb.Where(countSb.Equal("organization_id", tenantID))

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count clients")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count clients")
	}

	sb := r.db.Flavor().NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("organization_id", tenantID))
	sb.OrderBy("created_at DESC", "id ASC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list clients")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list clients")
	}

	return clients, totalCount, nil
}

// SetActive toggles whether the client takes part in matching
func (r *Repository) SetActive(ctx context.Context, tenantID, id string, active bool) (*models.Client, error) {
	ctx, span := tracing.StartSpan(ctx, "client.Repository.SetActive")
	defer span.End()

	existing, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	existing.IsActive = active
	existing.UpdatedAt = time.Now().UTC()

	sb := r.db.Flavor().NewUpdateBuilder()
	sb.Update(table)
	sb.Set(
		sb.Assign("is_active", existing.IsActive),
		sb.Assign("updated_at", existing.UpdatedAt),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("organization_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update client")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update client")
	}

	return existing, nil
}
