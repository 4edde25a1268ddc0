package models

import (
	"time"

	"github.com/Oikion/mvp-sub017/pkg/database"
)

// Client is a CRM client together with the search requirements used for matching
type Client struct {
	ID             string                                `json:"id" db:"id"`
	OrganizationID string                                `json:"organization_id" db:"organization_id"`
	Name           string                                `json:"name" db:"name"`
	Intent         Intent                                `json:"intent" db:"intent"`
	BudgetMin      *float64                              `json:"budget_min,omitempty" db:"budget_min"`
	BudgetMax      *float64                              `json:"budget_max,omitempty" db:"budget_max"`
	Currency       string                                `json:"currency" db:"currency"`
	Locations      database.JSONB[[]string]              `json:"locations" db:"locations"`
	PropertyTypes  database.JSONB[[]string]              `json:"property_types" db:"property_types"`
	MinBedrooms    *int                                  `json:"min_bedrooms,omitempty" db:"min_bedrooms"`
	MinBathrooms   *int                                  `json:"min_bathrooms,omitempty" db:"min_bathrooms"`
	Notes          *string                               `json:"notes,omitempty" db:"notes"`
	Preferences    database.JSONB[[]ExtractedPreference] `json:"preferences" db:"preferences"`
	IsActive       bool                                  `json:"is_active" db:"is_active"`
	CreatedAt      time.Time                             `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time                             `json:"updated_at" db:"updated_at"`
}

// ToProfile converts the stored client into the matcher's input shape
func (c Client) ToProfile() RequirementProfile {
	return RequirementProfile{
		ID:            c.ID,
		BudgetMin:     c.BudgetMin,
		BudgetMax:     c.BudgetMax,
		Currency:      c.Currency,
		Locations:     c.Locations.Data,
		PropertyTypes: c.PropertyTypes.Data,
		MinBedrooms:   c.MinBedrooms,
		MinBathrooms:  c.MinBathrooms,
		Intent:        c.Intent,
		Notes:         c.Notes,
		Preferences:   c.Preferences.Data,
	}
}

// CreateClientRequest is the request to create a client
type CreateClientRequest struct {
	Name          string                `json:"name" validate:"required"`
	Intent        Intent                `json:"intent" validate:"omitempty,oneof=buy rent"`
	BudgetMin     *float64              `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax     *float64              `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	Currency      string                `json:"currency,omitempty" validate:"omitempty,len=3"`
	Locations     []string              `json:"locations,omitempty"`
	PropertyTypes []string              `json:"property_types,omitempty"`
	MinBedrooms   *int                  `json:"min_bedrooms,omitempty" validate:"omitempty,gte=0"`
	MinBathrooms  *int                  `json:"min_bathrooms,omitempty" validate:"omitempty,gte=0"`
	Notes         *string               `json:"notes,omitempty"`
	Preferences   []ExtractedPreference `json:"preferences,omitempty" validate:"dive"`
}

// ClientListResponse is the API response for listing clients
type ClientListResponse struct {
	Items      []Client `json:"items"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}
