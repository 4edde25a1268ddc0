package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips combining marks (Greek tonos and dialytika included) and
// maps the final sigma to σ, so "Ασανσέρ" and "ασανσερ" compare equal.
func Fold(s string) string {
	if s == "" {
		return s
	}
	// transform.Chain keeps state, so each call builds its own
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.ReplaceAll(folded, "ς", "σ")
}

var greekDigraphs = strings.NewReplacer(
	"ου", "ou",
	"αυ", "av",
	"ευ", "ev",
)

var greekLetters = map[rune]string{
	'α': "a", 'β': "v", 'γ': "g", 'δ': "d", 'ε': "e", 'ζ': "z", 'η': "i", 'θ': "th",
	'ι': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x", 'ο': "o", 'π': "p",
	'ρ': "r", 'σ': "s", 'τ': "t", 'υ': "y", 'φ': "f", 'χ': "ch", 'ψ': "ps", 'ω': "o",
}

// Transliterate folds s and writes Greek letters in Latin (ELOT 743 style, simplified)
func Transliterate(s string) string {
	s = greekDigraphs.Replace(Fold(s))
	var result strings.Builder
	for _, r := range s {
		if latin, ok := greekLetters[r]; ok {
			result.WriteString(latin)
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
