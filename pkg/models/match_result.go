package models

// CriterionType separates structured comparisons from note-derived ones
type CriterionType string

const (
	CriterionHard CriterionType = "hard"
	CriterionSoft CriterionType = "soft"
)

// Hard criterion names, in evaluation order
const (
	CriterionBudget       = "budget"
	CriterionLocation     = "location"
	CriterionPropertyType = "type"
	CriterionBedrooms     = "bedrooms"
	CriterionBathrooms    = "bathrooms"
)

// CriterionResult is one line of a match breakdown
type CriterionResult struct {
	Criterion    string        `json:"criterion"`
	Type         CriterionType `json:"type"`
	Matched      bool          `json:"matched"`
	Weight       int           `json:"weight"`
	Contribution int           `json:"contribution"`
}

// MatchResult is the score of one (profile, listing) pair
type MatchResult struct {
	ProfileID       string            `json:"profile_id"`
	ListingID       string            `json:"listing_id"`
	OverallScore    int               `json:"overall_score"`
	Breakdown       []CriterionResult `json:"breakdown"`
	MatchedCriteria int               `json:"matched_criteria"`
	TotalCriteria   int               `json:"total_criteria"`
}
