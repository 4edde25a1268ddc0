// Package normalizers turns profile and listing fields into comparable forms
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("fold", Fold)
	Register("collapse_whitespace", CollapseWhitespace)
	Register("digits_only", DigitsOnly)
	Register("transliterate", Transliterate)
	Register("area_code", AreaCode)
	Register("property_type", PropertyType)
	Register("amenity", Amenity)
	Register("condition", func(s string) string { return ParseCondition(s).String() })
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value. Unknown names leave the value untouched.
func Apply(value, normalizer string) string {
	fn, ok := Get(normalizer)
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims and squeezes runs of whitespace into one space
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Slug folds s and joins its letter/digit runs with "-"
func Slug(s string) string {
	s = Fold(s)
	var result strings.Builder
	pendingDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && result.Len() > 0 {
				result.WriteByte('-')
			}
			result.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return result.String()
}
