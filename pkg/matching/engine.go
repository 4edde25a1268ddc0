package matching

import (
	"sort"

	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/normalizers"
	"github.com/Oikion/mvp-sub017/pkg/validation"
)

// DefaultLimit is used by callers that do not ask for a specific result count
const DefaultLimit = 20

// RankRequest bounds a ranking. Threshold 0 keeps every pair.
type RankRequest struct {
	Threshold int `json:"threshold" query:"threshold" validate:"min=0,max=100"`
	Limit     int `json:"limit" query:"limit" validate:"min=1"`
}

// DefaultRankRequest keeps every pair up to DefaultLimit
func DefaultRankRequest() RankRequest {
	return RankRequest{Threshold: 0, Limit: DefaultLimit}
}

// Engine ranks many profile/listing pairs with a Scorer
type Engine struct {
	scorer *Scorer
}

// NewEngine creates a ranking engine
func NewEngine(scorer *Scorer) *Engine {
	return &Engine{scorer: scorer}
}

// Scorer returns the engine's scorer
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// Validate rejects out of range thresholds and limits with a 400 error
func (e *Engine) Validate(req RankRequest) error {
	_, err := validation.Validate(req)
	return err
}

// Rank scores every profile against every listing (profiles outermost), drops scores under
// the threshold, sorts by score then matched criteria (both descending, ties in input order)
// and keeps the first req.Limit results.
func (e *Engine) Rank(profiles []normalizers.NormalizedProfile, listings []normalizers.NormalizedListing, req RankRequest) ([]models.MatchResult, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}

	results := make([]models.MatchResult, 0, len(profiles)*len(listings))
	for _, p := range profiles {
		for _, l := range listings {
			result := e.scorer.Score(p, l)
			if result.OverallScore < req.Threshold {
				continue
			}
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		return results[i].MatchedCriteria > results[j].MatchedCriteria
	})

	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

// RankRaw normalizes raw profiles and listings, then ranks them
func (e *Engine) RankRaw(profiles []models.RequirementProfile, listings []models.CandidateListing, req RankRequest) ([]models.MatchResult, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}

	normalizedProfiles := make([]normalizers.NormalizedProfile, len(profiles))
	for i, p := range profiles {
		normalizedProfiles[i] = e.scorer.Profile(p)
	}
	normalizedListings := make([]normalizers.NormalizedListing, len(listings))
	for i, l := range listings {
		normalizedListings[i] = normalizers.NormalizeListing(l)
	}

	return e.Rank(normalizedProfiles, normalizedListings, req)
}
