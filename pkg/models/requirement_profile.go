package models

// Intent is the transaction a client is looking for
type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentRent Intent = "rent"
)

// RequirementProfile is a client's search requirements as handed to the matcher.
// Nil pointers and empty slices mean "no requirement".
type RequirementProfile struct {
	ID            string                `json:"id" yaml:"id"`
	BudgetMin     *float64              `json:"budget_min,omitempty" yaml:"budget_min"`
	BudgetMax     *float64              `json:"budget_max,omitempty" yaml:"budget_max"`
	Currency      string                `json:"currency,omitempty" yaml:"currency"`
	Locations     []string              `json:"locations,omitempty" yaml:"locations"`
	PropertyTypes []string              `json:"property_types,omitempty" yaml:"property_types"`
	MinBedrooms   *int                  `json:"min_bedrooms,omitempty" yaml:"min_bedrooms"`
	MinBathrooms  *int                  `json:"min_bathrooms,omitempty" yaml:"min_bathrooms"`
	Intent        Intent                `json:"intent,omitempty" yaml:"intent" validate:"omitempty,oneof=buy rent"`
	Notes         *string               `json:"notes,omitempty" yaml:"notes"`
	Preferences   []ExtractedPreference `json:"preferences,omitempty" yaml:"preferences" validate:"dive"`
}

// HasNotes reports whether the profile carries free text worth extracting from
func (p RequirementProfile) HasNotes() bool {
	return p.Notes != nil && *p.Notes != ""
}

// MergePreferences returns the profile's explicit preferences followed by any extracted
// preference whose kind was not already supplied explicitly. A kind listed twice keeps its
// highest importance at the position it was first seen.
func (p RequirementProfile) MergePreferences(extracted []ExtractedPreference) []ExtractedPreference {
	index := make(map[PreferenceKind]int, len(p.Preferences))
	merged := make([]ExtractedPreference, 0, len(p.Preferences)+len(extracted))
	for _, pref := range p.Preferences {
		if i, ok := index[pref.Type]; ok {
			if pref.Importance.Rank() > merged[i].Importance.Rank() {
				merged[i] = pref
			}
			continue
		}
		index[pref.Type] = len(merged)
		merged = append(merged, pref)
	}
	for _, pref := range extracted {
		if _, ok := index[pref.Type]; ok {
			continue
		}
		index[pref.Type] = len(merged)
		merged = append(merged, pref)
	}
	return merged
}
