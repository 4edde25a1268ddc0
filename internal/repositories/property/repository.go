package property

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

const table = "properties"

var columns = []string{
	"id", "organization_id", "title", "price", "location", "bedrooms", "bathrooms", "property_type",
	"floor", "elevator", "amenities", "description", "condition_label", "attributes", "is_active",
	"created_at", "updated_at",
}

// Repository handles property persistence. Every query is scoped to an organization.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new property repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new active property
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreatePropertyRequest) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "property.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Create",
		"tenant_id": tenantID,
	})

	now := time.Now().UTC()
	p := &models.Property{
		ID:             uuid.New().String(),
		OrganizationID: tenantID,
		Title:          req.Title,
		Price:          req.Price,
		Location:       req.Location,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		PropertyType:   req.PropertyType,
		Floor:          req.Floor,
		Elevator:       req.Elevator,
		Amenities:      database.NewJSONB(req.Amenities),
		Description:    req.Description,
		Condition:      req.Condition,
		Attributes:     database.NewJSONB(req.Attributes),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sb := r.db.Flavor().NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(p.ID, p.OrganizationID, p.Title, p.Price, p.Location, p.Bedrooms, p.Bathrooms, p.PropertyType,
		p.Floor, p.Elevator, p.Amenities, p.Description, p.Condition, p.Attributes, p.IsActive,
		p.CreatedAt, p.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create property")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create property")
	}

	log.WithFields(map[string]any{"id": p.ID}).Info("Created property")
	return p, nil
}

// Get retrieves a property by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "property.Repository.Get")
	defer span.End()

	sb := r.db.Flavor().NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("organization_id", tenantID),
	)

	query, args := sb.Build()
	var p models.Property
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		if database.IsNoRows(err) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("property %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get property")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get property")
	}

	return &p, nil
}

// ListActive returns the organization's active properties, oldest first. A non-empty
// locations list restricts the result to those raw location values.
func (r *Repository) ListActive(ctx context.Context, tenantID string, locations ...string) ([]models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "property.Repository.ListActive")
	defer span.End()

	sb := r.db.Flavor().NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	where := []string{
		sb.Equal("organization_id", tenantID),
		sb.Equal("is_active", true),
	}
	if len(locations) > 0 {
		values := make([]any, len(locations))
		for i, l := range locations {
			values[i] = l
		}
		where = append(where, sb.In("location", values...))
	}
	sb.Where(where...)
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()
	properties := []models.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list active properties")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list properties")
	}

	return properties, nil
}

// List returns one page of the organization's properties and the total count
func (r *Repository) List(ctx context.Context, tenantID string, page, pageSize int) ([]models.Property, int, error) {
	ctx, span := tracing.StartSpan(ctx, "property.Repository.List")
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
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count properties")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count properties")
	}

	sb := r.db.Flavor().NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("organization_id", tenantID))
	sb.OrderBy("created_at DESC", "id ASC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	properties := []models.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list properties")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list properties")
	}

	return properties, totalCount, nil
}

// SetActive toggles whether the property takes part in matching
func (r *Repository) SetActive(ctx context.Context, tenantID, id string, active bool) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "property.Repository.SetActive")
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
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update property")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update property")
	}

	return existing, nil
}
