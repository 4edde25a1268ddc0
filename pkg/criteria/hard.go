package criteria

import (
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/normalizers"
)

// Listing field names used by hard criteria
const (
	FieldPrice        = "price"
	FieldArea         = "area"
	FieldPropertyType = "property_type"
	FieldBedrooms     = "bedrooms"
	FieldBathrooms    = "bathrooms"
)

// HardCriterion is one structured requirement made of one or more conditions
type HardCriterion struct {
	Name       string
	Conditions []Condition
}

// Evaluate reports whether every condition matched. The criterion is evaluable only when
// every condition could be evaluated against the listing.
func (c HardCriterion) Evaluate(fields map[string]any) (matched bool, evaluable bool) {
	matched = true
	for _, result := range EvaluateAll(fields, c.Conditions) {
		if !result.Evaluable {
			return false, false
		}
		matched = matched && result.Matched
	}
	return matched, true
}

// HardCriteria builds the profile's hard criteria in evaluation order: budget, location,
// type, bedrooms, bathrooms. Requirements the profile leaves open are not produced.
func HardCriteria(p normalizers.NormalizedProfile) []HardCriterion {
	var list []HardCriterion

	if p.Budget.IsSet() {
		budget := HardCriterion{Name: models.CriterionBudget}
		if p.Budget.Min != nil {
			budget.Conditions = append(budget.Conditions, Condition{Field: FieldPrice, Operator: OpGte, Value: *p.Budget.Min})
		}
		if p.Budget.Max != nil {
			budget.Conditions = append(budget.Conditions, Condition{Field: FieldPrice, Operator: OpLte, Value: *p.Budget.Max})
		}
		list = append(list, budget)
	}

	if len(p.Areas) > 0 {
		list = append(list, HardCriterion{
			Name:       models.CriterionLocation,
			Conditions: []Condition{{Field: FieldArea, Operator: OpIn, Value: p.Areas}},
		})
	}

	if len(p.PropertyTypes) > 0 {
		list = append(list, HardCriterion{
			Name:       models.CriterionPropertyType,
			Conditions: []Condition{{Field: FieldPropertyType, Operator: OpIn, Value: p.PropertyTypes}},
		})
	}

	if p.MinBedrooms != nil {
		list = append(list, HardCriterion{
			Name:       models.CriterionBedrooms,
			Conditions: []Condition{{Field: FieldBedrooms, Operator: OpGte, Value: *p.MinBedrooms}},
		})
	}

	if p.MinBathrooms != nil {
		list = append(list, HardCriterion{
			Name:       models.CriterionBathrooms,
			Conditions: []Condition{{Field: FieldBathrooms, Operator: OpGte, Value: *p.MinBathrooms}},
		})
	}

	return list
}

// ListingFields flattens the listing's comparable fields. Unknown values are left out so
// conditions on them are not evaluable.
func ListingFields(l normalizers.NormalizedListing) map[string]any {
	fields := make(map[string]any, 5)
	if l.Price != nil {
		fields[FieldPrice] = *l.Price
	}
	if l.Area != nil {
		fields[FieldArea] = *l.Area
	}
	if l.PropertyType != nil {
		fields[FieldPropertyType] = *l.PropertyType
	}
	if l.Bedrooms != nil {
		fields[FieldBedrooms] = *l.Bedrooms
	}
	if l.Bathrooms != nil {
		fields[FieldBathrooms] = *l.Bathrooms
	}
	return fields
}
