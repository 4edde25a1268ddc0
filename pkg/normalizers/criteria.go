package normalizers

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/Oikion/mvp-sub017/pkg/extractor"
	"github.com/Oikion/mvp-sub017/pkg/models"
)

// Range is a numeric interval, either bound may be open
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsSet reports whether at least one bound is present
func (r Range) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether v lies inside the closed interval
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// NormalizedProfile is a requirement profile in the scorer's vocabulary
type NormalizedProfile struct {
	ID            string
	Budget        Range
	Areas         []string
	PropertyTypes []string
	MinBedrooms   *int
	MinBathrooms  *int
	Preferences   []models.ExtractedPreference
}

// NormalizedListing is a candidate listing in the scorer's vocabulary. Nil means unknown.
type NormalizedListing struct {
	ID           string
	Price        *float64
	Area         *string
	PropertyType *string
	Bedrooms     *int
	Bathrooms    *int
	Floor        *int
	Elevator     *bool
	Amenities    []string
	AmenityText  string // lowercase serialized amenities, empty when the listing has none
	Description  string // folded description
	Condition    Condition
}

// NormalizeProfile converts a profile. prefs are the preferences to score, already merged
// from explicit and extracted ones.
func NormalizeProfile(p models.RequirementProfile, prefs []models.ExtractedPreference) NormalizedProfile {
	np := NormalizedProfile{
		ID:           p.ID,
		Budget:       Range{Min: p.BudgetMin, Max: p.BudgetMax},
		MinBedrooms:  p.MinBedrooms,
		MinBathrooms: p.MinBathrooms,
		Preferences:  prefs,
	}
	np.Areas = uniqueNonEmpty(p.Locations, areaChain...)
	np.PropertyTypes = uniqueNonEmpty(p.PropertyTypes, propertyTypeChain...)
	return np
}

// normalizer chains applied to free-text fields, by registry name
var (
	areaChain         = []string{"collapse_whitespace", "area_code"}
	propertyTypeChain = []string{"collapse_whitespace", "property_type"}
	descriptionChain  = []string{"fold", "collapse_whitespace"}
	priceChain        = []string{"digits_only"}
)

var (
	listingExtractor = extractor.New()

	pricePaths       = []string{"price.amount", "pricing.price", "price"}
	areaPaths        = []string{"location.area", "location.name", "address.area", "area", "location"}
	typePaths        = []string{"property_type", "type", "category"}
	bedroomPaths     = []string{"bedrooms", "rooms.bedrooms", "features.bedrooms"}
	bathroomPaths    = []string{"bathrooms", "rooms.bathrooms", "features.bathrooms"}
	floorPaths       = []string{"floor.number", "floor", "features.floor"}
	elevatorPaths    = []string{"elevator", "features.elevator", "amenities.elevator"}
	amenityPaths     = []string{"amenities", "features"}
	amenityListPaths = []string{"amenities[*].name", "amenities[*]", "features[*]"}
	descriptionPaths = []string{"description.el", "description.en", "description"}
	conditionPaths   = []string{"condition", "features.condition"}
)

// NormalizeListing converts a listing. Explicit fields win; missing ones are looked up in
// the raw attributes.
func NormalizeListing(l models.CandidateListing) NormalizedListing {
	nl := NormalizedListing{
		ID:        l.ID,
		Price:     l.Price,
		Bedrooms:  l.Bedrooms,
		Bathrooms: l.Bathrooms,
		Floor:     l.Floor,
		Elevator:  l.Elevator,
	}
	attrs := l.Attributes

	if nl.Price == nil {
		if f, ok := listingExtractor.Float(attrs, pricePaths...); ok {
			nl.Price = &f
		} else if f, ok := parsePriceText(listingExtractor.String(attrs, pricePaths...)); ok {
			nl.Price = &f
		}
	}

	area := deref(l.Location)
	if area == "" {
		area, _ = listingExtractor.String(attrs, areaPaths...)
	}
	if code := ApplyChain(area, areaChain...); code != "" {
		nl.Area = &code
	}

	propertyType := deref(l.PropertyType)
	if propertyType == "" {
		propertyType, _ = listingExtractor.String(attrs, typePaths...)
	}
	if code := ApplyChain(propertyType, propertyTypeChain...); code != "" {
		nl.PropertyType = &code
	}

	if nl.Bedrooms == nil {
		if n, ok := listingExtractor.Int(attrs, bedroomPaths...); ok {
			nl.Bedrooms = &n
		}
	}
	if nl.Bathrooms == nil {
		if n, ok := listingExtractor.Int(attrs, bathroomPaths...); ok {
			nl.Bathrooms = &n
		}
	}
	if nl.Floor == nil {
		if n, ok := listingExtractor.Int(attrs, floorPaths...); ok {
			nl.Floor = &n
		}
	}
	if nl.Elevator == nil {
		if b, ok := listingExtractor.Bool(attrs, elevatorPaths...); ok {
			nl.Elevator = &b
		}
	}

	amenities := l.Amenities
	if len(amenities) == 0 {
		if m, ok := listingExtractor.First(attrs, amenityPaths...).(map[string]any); ok {
			amenities = m
		} else {
			amenities = amenityList(attrs)
		}
	}
	nl.Amenities = AmenitySet(amenities)
	nl.AmenityText = AmenityText(amenities)

	description := deref(l.Description)
	if description == "" {
		description, _ = listingExtractor.String(attrs, descriptionPaths...)
	}
	nl.Description = ApplyChain(description, descriptionChain...)

	condition := deref(l.Condition)
	if condition == "" {
		condition, _ = listingExtractor.String(attrs, conditionPaths...)
	}
	nl.Condition = ParseCondition(condition)

	return nl
}

// Amenity canonicalises an amenity key or value ("Sea View" -> "sea-view")
func Amenity(s string) string {
	return Slug(s)
}

// AmenitySet returns the sorted amenity names present in a free-form amenity map.
// Keys with a falsy value are left out; string values and string lists are included too.
func AmenitySet(amenities map[string]any) []string {
	set := make(map[string]struct{})
	for key, value := range amenities {
		if b, ok := extractor.ToBool(value); ok && !b {
			continue
		}
		if value == nil {
			continue
		}
		if name := Amenity(key); name != "" {
			set[name] = struct{}{}
		}
		switch v := value.(type) {
		case string:
			if _, isBool := extractor.ToBool(v); !isBool {
				if name := Amenity(v); name != "" {
					set[name] = struct{}{}
				}
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					if name := Amenity(s); name != "" {
						set[name] = struct{}{}
					}
				}
			}
		}
	}

	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// AmenityText serializes the amenity map to folded lowercase JSON, the form substring checks run against
func AmenityText(amenities map[string]any) string {
	if len(amenities) == 0 {
		return ""
	}
	b, err := json.Marshal(amenities)
	if err != nil {
		return ""
	}
	return Fold(string(b))
}

// amenityList collects amenities that MLS feeds send as a list of names or of {"name": ...} objects
func amenityList(attrs map[string]any) map[string]any {
	amenities := make(map[string]any)
	for _, path := range amenityListPaths {
		values, err := listingExtractor.ExtractAll(attrs, path)
		if err != nil {
			continue
		}
		for _, value := range values {
			if name, ok := value.(string); ok && name != "" {
				amenities[name] = true
			}
		}
	}
	return amenities
}

// parsePriceText reads prices sent as text ("€ 250.000", "250.000,00"); the decimal part is dropped
func parsePriceText(text string, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	if i := strings.LastIndex(text, ","); i >= 0 && len(text)-i <= 3 {
		text = text[:i]
	}
	digits := ApplyChain(text, priceChain...)
	if digits == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func uniqueNonEmpty(values []string, chain ...string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := ApplyChain(v, chain...)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
