package models

// CandidateListing is a property under evaluation. Every field is optional; a nil field
// means the listing does not say, and criteria depending on it are skipped.
type CandidateListing struct {
	ID           string         `json:"id" yaml:"id"`
	Price        *float64       `json:"price,omitempty" yaml:"price"`
	Location     *string        `json:"location,omitempty" yaml:"location"`
	Bedrooms     *int           `json:"bedrooms,omitempty" yaml:"bedrooms"`
	Bathrooms    *int           `json:"bathrooms,omitempty" yaml:"bathrooms"`
	PropertyType *string        `json:"property_type,omitempty" yaml:"property_type"`
	Floor        *int           `json:"floor,omitempty" yaml:"floor"`
	Elevator     *bool          `json:"elevator,omitempty" yaml:"elevator"`
	Amenities    map[string]any `json:"amenities,omitempty" yaml:"amenities"`
	Description  *string        `json:"description,omitempty" yaml:"description"`
	Condition    *string        `json:"condition,omitempty" yaml:"condition"`

	// Attributes holds the raw MLS payload. Fields above take precedence; missing ones
	// are looked up here by path (e.g. "features.elevator").
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes"`
}
