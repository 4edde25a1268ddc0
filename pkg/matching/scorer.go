// Package matching scores requirement profiles against candidate listings and ranks the results
package matching

import (
	"math"
	"strings"

	"github.com/Oikion/mvp-sub017/pkg/criteria"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/normalizers"
	"github.com/Oikion/mvp-sub017/pkg/preferences"
)

// Weights are the per-criterion weights. They are fixed for the lifetime of a Scorer.
type Weights struct {
	Hard       int `mapstructure:"hard" json:"hard" validate:"min=0"`
	Required   int `mapstructure:"required" json:"required" validate:"min=0"`
	Preferred  int `mapstructure:"preferred" json:"preferred" validate:"min=0"`
	NiceToHave int `mapstructure:"nice_to_have" json:"nice_to_have" validate:"min=0"`
}

// DefaultWeights returns hard=3, required=3, preferred=2, nice_to_have=1
func DefaultWeights() Weights {
	return Weights{Hard: 3, Required: 3, Preferred: 2, NiceToHave: 1}
}

// For returns the weight of a soft criterion with the given importance
func (w Weights) For(importance models.Importance) int {
	switch importance {
	case models.ImportanceRequired:
		return w.Required
	case models.ImportancePreferred:
		return w.Preferred
	case models.ImportanceNiceToHave:
		return w.NiceToHave
	default:
		return 0
	}
}

// matcher decides whether a listing satisfies one preference. evaluable is false when the
// listing carries no information for it.
type matcher func(s *Scorer, pref models.ExtractedPreference, l normalizers.NormalizedListing) (matched bool, evaluable bool)

// matchers maps every preference kind to its strategy
var matchers = map[models.PreferenceKind]matcher{
	models.PreferenceElevator:        matchElevator,
	models.PreferenceGroundFloor:     matchGroundFloor,
	models.PreferenceRenovated:       matchCondition,
	models.PreferenceNewBuild:        matchCondition,
	models.PreferenceBalcony:         matchFeature,
	models.PreferenceSeaView:         matchFeature,
	models.PreferenceQuiet:           matchFeature,
	models.PreferenceBright:          matchFeature,
	models.PreferenceParking:         matchFeature,
	models.PreferenceGarden:          matchFeature,
	models.PreferencePool:            matchFeature,
	models.PreferenceStorage:         matchFeature,
	models.PreferenceFireplace:       matchFeature,
	models.PreferenceFurnished:       matchFeature,
	models.PreferencePetFriendly:     matchFeature,
	models.PreferenceAirConditioning: matchFeature,
	models.PreferenceHeating:         matchFeature,
	models.PreferenceShower:          matchFeature,
}

// Scorer evaluates profile/listing pairs. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	prefs   *preferences.Extractor
	weights Weights
}

// NewScorer creates a scorer that reuses prefs for description checks and note extraction
func NewScorer(prefs *preferences.Extractor, weights Weights) *Scorer {
	return &Scorer{prefs: prefs, weights: weights}
}

// Weights returns the scorer's weights
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Extractor returns the preference extractor the scorer was built with
func (s *Scorer) Extractor() *preferences.Extractor {
	return s.prefs
}

// Profile normalizes a raw profile, extracting preferences from its notes. Explicit
// preferences win over extracted ones of the same kind.
func (s *Scorer) Profile(p models.RequirementProfile) normalizers.NormalizedProfile {
	var extracted []models.ExtractedPreference
	if p.HasNotes() {
		extracted = s.prefs.Extract(*p.Notes)
	}
	return normalizers.NormalizeProfile(p, p.MergePreferences(extracted))
}

// ScoreRaw normalizes both sides and scores them
func (s *Scorer) ScoreRaw(p models.RequirementProfile, l models.CandidateListing) models.MatchResult {
	return s.Score(s.Profile(p), normalizers.NormalizeListing(l))
}

// Score evaluates hard criteria (budget, location, type, bedrooms, bathrooms) then every
// preference in order. Criteria that cannot be evaluated are left out of the breakdown.
func (s *Scorer) Score(p normalizers.NormalizedProfile, l normalizers.NormalizedListing) models.MatchResult {
	result := models.MatchResult{
		ProfileID: p.ID,
		ListingID: l.ID,
		Breakdown: []models.CriterionResult{},
	}

	fields := criteria.ListingFields(l)
	for _, hard := range criteria.HardCriteria(p) {
		matched, evaluable := hard.Evaluate(fields)
		if !evaluable {
			continue
		}
		result.Breakdown = append(result.Breakdown, criterionResult(hard.Name, models.CriterionHard, matched, s.weights.Hard))
	}

	for _, pref := range p.Preferences {
		match, ok := matchers[pref.Type]
		if !ok {
			continue
		}
		matched, evaluable := match(s, pref, l)
		if !evaluable {
			continue
		}
		result.Breakdown = append(result.Breakdown, criterionResult(string(pref.Type), models.CriterionSoft, matched, s.weights.For(pref.Importance)))
	}

	numerator, denominator := 0, 0
	for _, c := range result.Breakdown {
		numerator += c.Contribution
		denominator += c.Weight
		if c.Matched {
			result.MatchedCriteria++
		}
	}
	result.TotalCriteria = len(result.Breakdown)
	result.OverallScore = overallScore(numerator, denominator)

	return result
}

func criterionResult(name string, kind models.CriterionType, matched bool, weight int) models.CriterionResult {
	c := models.CriterionResult{Criterion: name, Type: kind, Matched: matched, Weight: weight}
	if matched {
		c.Contribution = weight
	}
	return c
}

// overallScore is round(100*num/den), 100 when nothing carried weight
func overallScore(numerator, denominator int) int {
	if denominator <= 0 {
		return 100
	}
	score := int(math.Round(100 * float64(numerator) / float64(denominator)))
	return max(0, min(100, score))
}

func matchElevator(s *Scorer, pref models.ExtractedPreference, l normalizers.NormalizedListing) (bool, bool) {
	if l.Elevator == nil {
		// without the flag only an explicit amenity or description mention counts
		if !s.hasFeature(pref.Type, l) {
			return false, false
		}
		return pref.Value, true
	}
	return *l.Elevator == pref.Value, true
}

func matchGroundFloor(_ *Scorer, pref models.ExtractedPreference, l normalizers.NormalizedListing) (bool, bool) {
	if l.Floor == nil {
		return false, false
	}
	return (*l.Floor == 0) == pref.Value, true
}

// matchCondition accepts very good or better regardless of the preference's polarity
func matchCondition(_ *Scorer, _ models.ExtractedPreference, l normalizers.NormalizedListing) (bool, bool) {
	if l.Condition == normalizers.ConditionUnknown {
		return false, false
	}
	return l.Condition.AtLeast(normalizers.ConditionVeryGood), true
}

// matchFeature looks for the feature in the serialized amenities first, then in the
// description. A listing that never mentions the feature does not have it.
func matchFeature(s *Scorer, pref models.ExtractedPreference, l normalizers.NormalizedListing) (bool, bool) {
	return s.hasFeature(pref.Type, l) == pref.Value, true
}

func (s *Scorer) hasFeature(kind models.PreferenceKind, l normalizers.NormalizedListing) bool {
	if l.AmenityText != "" {
		for _, keyword := range s.prefs.AmenityKeywords(kind) {
			if strings.Contains(l.AmenityText, keyword) {
				return true
			}
		}
	}
	return s.prefs.Mentions(kind, l.Description)
}
