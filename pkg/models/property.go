package models

import (
	"time"

	"github.com/Oikion/mvp-sub017/pkg/database"
)

// Property is an MLS listing owned by an organization
type Property struct {
	ID             string                         `json:"id" db:"id"`
	OrganizationID string                         `json:"organization_id" db:"organization_id"`
	Title          string                         `json:"title" db:"title"`
	Price          *float64                       `json:"price,omitempty" db:"price"`
	Location       *string                        `json:"location,omitempty" db:"location"`
	Bedrooms       *int                           `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms      *int                           `json:"bathrooms,omitempty" db:"bathrooms"`
	PropertyType   *string                        `json:"property_type,omitempty" db:"property_type"`
	Floor          *int                           `json:"floor,omitempty" db:"floor"`
	Elevator       *bool                          `json:"elevator,omitempty" db:"elevator"`
	Amenities      database.JSONB[map[string]any] `json:"amenities" db:"amenities"`
	Description    *string                        `json:"description,omitempty" db:"description"`
	Condition      *string                        `json:"condition,omitempty" db:"condition_label"`
	Attributes     database.JSONB[map[string]any] `json:"attributes" db:"attributes"`
	IsActive       bool                           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time                      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at" db:"updated_at"`
}

// ToListing converts the stored property into the matcher's input shape
func (p Property) ToListing() CandidateListing {
	return CandidateListing{
		ID:           p.ID,
		Price:        p.Price,
		Location:     p.Location,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		PropertyType: p.PropertyType,
		Floor:        p.Floor,
		Elevator:     p.Elevator,
		Amenities:    p.Amenities.Data,
		Description:  p.Description,
		Condition:    p.Condition,
		Attributes:   p.Attributes.Data,
	}
}

// CreatePropertyRequest is the request to create a property
type CreatePropertyRequest struct {
	Title        string         `json:"title" validate:"required"`
	Price        *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location     *string        `json:"location,omitempty"`
	Bedrooms     *int           `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms    *int           `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	PropertyType *string        `json:"property_type,omitempty"`
	Floor        *int           `json:"floor,omitempty"`
	Elevator     *bool          `json:"elevator,omitempty"`
	Amenities    map[string]any `json:"amenities,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Condition    *string        `json:"condition,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// PropertyListResponse is the API response for listing properties
type PropertyListResponse struct {
	Items      []Property `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
