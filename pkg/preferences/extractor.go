package preferences

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/normalizers"
)

const (
	// wordStart matches the start of text or a non letter/digit. RE2 \b only knows ASCII.
	wordStart = `(?:^|[^\p{L}\p{N}])`
	wordEnd   = `(?:$|[^\p{L}\p{N}])`
)

var (
	segmentSplitter = regexp.MustCompile(`[.!?\n]+`)
	clauseSplitter  = regexp.MustCompile(`[,;]+`)
)

type kindMatcher struct {
	kind      models.PreferenceKind
	pattern   *regexp.Regexp
	amenities []string
}

// Extractor turns free-text notes into preferences. It is immutable and safe for concurrent use.
type Extractor struct {
	kinds      []kindMatcher
	byKind     map[models.PreferenceKind]*kindMatcher
	required   *regexp.Regexp
	preferred  *regexp.Regexp
	negative   *regexp.Regexp
	minSegment int
	version    string
}

// NewExtractor compiles a table. Kinds are scanned in vocabulary order.
func NewExtractor(table Table) (*Extractor, error) {
	e := &Extractor{
		byKind:     make(map[models.PreferenceKind]*kindMatcher, len(table.Kinds)),
		minSegment: table.MinSegmentLength,
	}
	if e.minSegment <= 0 {
		e.minSegment = 5
	}

	raw, err := json.Marshal(table)
	if err != nil {
		return nil, eris.Wrap(err, "preferences: fingerprint table")
	}
	sum := sha256.Sum256(raw)
	e.version = hex.EncodeToString(sum[:6])

	if e.required, err = compileWords(table.Required); err != nil {
		return nil, eris.Wrap(err, "preferences: required indicators")
	}
	if e.preferred, err = compileWords(table.Preferred); err != nil {
		return nil, eris.Wrap(err, "preferences: preferred indicators")
	}
	if e.negative, err = compileWords(table.Negative); err != nil {
		return nil, eris.Wrap(err, "preferences: negative indicators")
	}

	for _, kind := range models.PreferenceKinds() {
		entry, ok := table.Kinds[kind]
		if !ok || len(entry.Patterns) == 0 {
			continue
		}
		pattern, err := compilePrefix(entry.Patterns)
		if err != nil {
			return nil, eris.Wrapf(err, "preferences: patterns for %s", kind)
		}
		amenities := make([]string, 0, len(entry.Amenities))
		for _, a := range entry.Amenities {
			if a = normalizers.Fold(a); a != "" {
				amenities = append(amenities, a)
			}
		}
		e.kinds = append(e.kinds, kindMatcher{kind: kind, pattern: pattern, amenities: amenities})
	}
	for i := range e.kinds {
		e.byKind[e.kinds[i].kind] = &e.kinds[i]
	}

	return e, nil
}

// MustNewExtractor is NewExtractor for tables known to be valid
func MustNewExtractor(table Table) *Extractor {
	e, err := NewExtractor(table)
	if err != nil {
		panic(err)
	}
	return e
}

// NewDefaultExtractor compiles the built-in table
func NewDefaultExtractor() *Extractor {
	return MustNewExtractor(DefaultTable())
}

// compileWords builds an alternation that must be delimited on both sides
func compileWords(words []string) (*regexp.Regexp, error) {
	if len(words) == 0 {
		return nil, nil
	}
	return regexp.Compile(`(?i)` + wordStart + `(?:` + strings.Join(words, "|") + `)` + wordEnd)
}

// compilePrefix builds an alternation anchored at a word start only, so stems match inflections
func compilePrefix(patterns []string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)` + wordStart + `(?:` + strings.Join(patterns, "|") + `)`)
}

// Kinds returns the kinds this extractor can recognise, in vocabulary order
func (e *Extractor) Kinds() []models.PreferenceKind {
	kinds := make([]models.PreferenceKind, len(e.kinds))
	for i, k := range e.kinds {
		kinds[i] = k.kind
	}
	return kinds
}

// Mentions reports whether text mentions kind at all, ignoring importance and polarity
func (e *Extractor) Mentions(kind models.PreferenceKind, text string) bool {
	m, ok := e.byKind[kind]
	if !ok || text == "" {
		return false
	}
	return m.pattern.MatchString(normalizers.Fold(text))
}

// AmenityKeywords returns the folded substrings that signal kind in serialized amenities
func (e *Extractor) AmenityKeywords(kind models.PreferenceKind) []string {
	m, ok := e.byKind[kind]
	if !ok {
		return nil
	}
	return m.amenities
}

type mention struct {
	kind  models.PreferenceKind
	start int
}

// Extract infers preferences from text. Each kind appears at most once: when a kind is
// mentioned repeatedly the highest importance wins, ties keep the earliest mention, and the
// result keeps the position where the kind was first seen.
func (e *Extractor) Extract(text string) []models.ExtractedPreference {
	folded := normalizers.Fold(text)
	if strings.TrimSpace(folded) == "" {
		return []models.ExtractedPreference{}
	}

	result := []models.ExtractedPreference{}
	index := make(map[models.PreferenceKind]int)

	for _, segment := range segmentSplitter.Split(folded, -1) {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) < e.minSegment {
			continue
		}
		fallback := e.anyImportance(segment, models.ImportanceNiceToHave)

		for _, clause := range clauseSplitter.Split(segment, -1) {
			mentions := e.mentions(clause)
			if len(mentions) == 0 {
				continue
			}
			value := !matches(e.negative, clause)

			for _, m := range mentions {
				pref := models.ExtractedPreference{
					Type:       m.kind,
					Value:      value,
					Importance: e.importance(clause, m.start, fallback),
				}
				if i, seen := index[m.kind]; seen {
					if pref.Importance.Rank() > result[i].Importance.Rank() {
						result[i] = pref
					}
					continue
				}
				index[m.kind] = len(result)
				result = append(result, pref)
			}
		}
	}

	return result
}

// mentions lists the kinds found in clause ordered by where they first occur
func (e *Extractor) mentions(clause string) []mention {
	var found []mention
	for _, k := range e.kinds {
		if loc := k.pattern.FindStringIndex(clause); loc != nil {
			found = append(found, mention{kind: k.kind, start: loc[0]})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})
	return found
}

// importance resolves the tier of a mention at pos: the closest indicator before it in the
// clause, then any indicator in the clause, then the segment fallback.
func (e *Extractor) importance(clause string, pos int, fallback models.Importance) models.Importance {
	best := -1
	tier := models.Importance("")

	for _, loc := range findAll(e.required, clause) {
		if loc[0] < pos && loc[0] > best {
			best, tier = loc[0], models.ImportanceRequired
		}
	}
	for _, loc := range findAll(e.preferred, clause) {
		if loc[0] < pos && loc[0] > best {
			best, tier = loc[0], models.ImportancePreferred
		}
	}
	if tier != "" {
		return tier
	}

	return e.anyImportance(clause, fallback)
}

func (e *Extractor) anyImportance(text string, fallback models.Importance) models.Importance {
	switch {
	case matches(e.required, text):
		return models.ImportanceRequired
	case matches(e.preferred, text):
		return models.ImportancePreferred
	default:
		return fallback
	}
}

func matches(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}

func findAll(re *regexp.Regexp, s string) [][]int {
	if re == nil {
		return nil
	}
	return re.FindAllStringIndex(s, -1)
}

// Version identifies the compiled table. Two extractors built from equal tables share it.
func (e *Extractor) Version() string {
	return e.version
}

// Validate checks that every vocabulary kind can be recognised
func (e *Extractor) Validate() error {
	var missing []string
	for _, kind := range models.PreferenceKinds() {
		if _, ok := e.byKind[kind]; !ok {
			missing = append(missing, string(kind))
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("preferences: no patterns for %s", strings.Join(missing, ", "))
	}
	return nil
}
