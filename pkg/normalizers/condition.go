package normalizers

import (
	"strings"
	"unicode"
)

// Condition is the ordinal state of a property, Unknown when the label is missing or unrecognised
type Condition int

const (
	ConditionUnknown Condition = iota
	ConditionPoor
	ConditionFair
	ConditionGood
	ConditionVeryGood
	ConditionExcellent
)

var conditionNames = map[Condition]string{
	ConditionUnknown:   "unknown",
	ConditionPoor:      "poor",
	ConditionFair:      "fair",
	ConditionGood:      "good",
	ConditionVeryGood:  "very_good",
	ConditionExcellent: "excellent",
}

func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return conditionNames[ConditionUnknown]
}

// AtLeast reports whether c is known and not below other
func (c Condition) AtLeast(other Condition) bool {
	return c != ConditionUnknown && c >= other
}

// conditionLabels is matched word by word against the folded label. Negated and pending
// phrases come first so "not renovated" never reaches "renovated". A stem matches any word
// that starts with it.
var conditionLabels = []struct {
	phrase    string
	condition Condition
	stem      bool
}{
	{phrase: "to be renovated", condition: ConditionPoor},
	{phrase: "needs renovation", condition: ConditionPoor},
	{phrase: "needs renewal", condition: ConditionPoor},
	{phrase: "renewal needed", condition: ConditionPoor},
	{phrase: "renovation needed", condition: ConditionPoor},
	{phrase: "needs work", condition: ConditionPoor},
	{phrase: "χρηζει ανακαινισ", condition: ConditionPoor, stem: true},
	{phrase: "προσ ανακαινισ", condition: ConditionPoor, stem: true},
	{phrase: "ανακαινιστε", condition: ConditionPoor, stem: true},
	{phrase: "not renovated", condition: ConditionFair},
	{phrase: "non renovated", condition: ConditionFair},
	{phrase: "unrenovated", condition: ConditionFair},
	{phrase: "under renovation", condition: ConditionFair},
	{phrase: "not new", condition: ConditionFair},
	{phrase: "μη ανακαινισμεν", condition: ConditionFair, stem: true},
	{phrase: "very good", condition: ConditionVeryGood},
	{phrase: "πολυ καλ", condition: ConditionVeryGood, stem: true},
	{phrase: "newly renovated", condition: ConditionExcellent},
	{phrase: "new build", condition: ConditionExcellent},
	{phrase: "brand new", condition: ConditionExcellent},
	{phrase: "excellent", condition: ConditionExcellent},
	{phrase: "εξαιρετικ", condition: ConditionExcellent, stem: true},
	{phrase: "αριστ", condition: ConditionExcellent, stem: true},
	{phrase: "νεοδμητ", condition: ConditionExcellent, stem: true},
	{phrase: "καινουργι", condition: ConditionExcellent, stem: true},
	{phrase: "new", condition: ConditionExcellent},
	{phrase: "renovated", condition: ConditionVeryGood},
	{phrase: "ανακαινισμεν", condition: ConditionVeryGood, stem: true},
	{phrase: "good", condition: ConditionGood},
	{phrase: "καλη", condition: ConditionGood},
	{phrase: "καλο", condition: ConditionGood},
	{phrase: "fair", condition: ConditionFair},
	{phrase: "average", condition: ConditionFair},
	{phrase: "μετρι", condition: ConditionFair, stem: true},
	{phrase: "poor", condition: ConditionPoor},
	{phrase: "bad", condition: ConditionPoor},
	{phrase: "κακη", condition: ConditionPoor},
}

// ParseCondition maps a free-text or enum condition label (English or Greek) onto the ordinal scale
func ParseCondition(label string) Condition {
	folded := Fold(label)
	for c, name := range conditionNames {
		if folded == name {
			return c
		}
	}
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ConditionUnknown
	}
	text := " " + strings.Join(words, " ") + " "
	for _, l := range conditionLabels {
		needle := " " + l.phrase
		if !l.stem {
			needle += " "
		}
		if strings.Contains(text, needle) {
			return l.condition
		}
	}
	return ConditionUnknown
}
