// Package preferences infers typed preference signals from free-text client notes (English and Greek)
package preferences

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Oikion/mvp-sub017/pkg/models"
)

// KindPatterns describes how one preference kind is recognised.
// Patterns are RE2 fragments written in folded form: lowercase, no accents, σ for final sigma.
// Amenities are plain substrings searched in a listing's serialized amenities.
type KindPatterns struct {
	Patterns  []string `yaml:"patterns" json:"patterns"`
	Amenities []string `yaml:"amenities" json:"amenities"`
}

// Table is the full extraction vocabulary. It is treated as immutable once handed to NewExtractor.
type Table struct {
	Kinds            map[models.PreferenceKind]KindPatterns `yaml:"kinds" json:"kinds"`
	Required         []string                               `yaml:"required" json:"required"`
	Preferred        []string                               `yaml:"preferred" json:"preferred"`
	Negative         []string                               `yaml:"negative" json:"negative"`
	MinSegmentLength int                                    `yaml:"min_segment_length" json:"min_segment_length"`
}

// DefaultTable returns the built-in bilingual table. Each call returns a fresh copy.
func DefaultTable() Table {
	return Table{
		MinSegmentLength: 5,
		Required: []string{
			`must`, `need`, `needs`, `needed`, `require`, `requires`, `required`, `essential`,
			`mandatory`, `necessary`, `have to`, `has to`,
			`πρεπει`, `απαραιτητ\p{L}*`, `χρειαζ\p{L}*`, `οπωσδηποτε`, `υποχρεωτικ\p{L}*`,
		},
		Preferred: []string{
			`prefer`, `prefers`, `preferred`, `preferably`, `want`, `wants`, `wanted`,
			`would like`, `would love`, `ideally`, `ideal`, `wish`, `hope`,
			`προτιμ\p{L}*`, `θελ\p{L}*`, `θα ηθελ\p{L}*`, `ιδανικ\p{L}*`, `ει δυνατον`,
		},
		Negative: []string{
			`no`, `not`, `don't`, `don’t`, `dont`, `do not`, `doesn't`, `avoid`, `without`, `never`, `none`,
			`οχι`, `χωρισ`, `δεν`, `μην`, `μη`, `αποφυγ\p{L}*`,
		},
		Kinds: map[models.PreferenceKind]KindPatterns{
			models.PreferenceElevator: {
				Patterns:  []string{`elevator`, `lifts?`, `ασανσερ`, `ανελκυστηρ\p{L}*`},
				Amenities: []string{"elevator", "lift", "ασανσερ", "ανελκυστηρ"},
			},
			models.PreferenceBalcony: {
				Patterns:  []string{`balcon(?:y|ies)`, `terraces?`, `verandas?`, `μπαλκον\p{L}*`, `βεραντ\p{L}*`, `ταρατσ\p{L}*`},
				Amenities: []string{"balcon", "terrace", "veranda", "μπαλκον", "βεραντ"},
			},
			models.PreferenceSeaView: {
				Patterns: []string{
					`sea[\s-]?views?`, `views? (?:of|to|over) the sea`, `ocean views?`,
					`θεα (?:στη |προσ τη |τη )?θαλασσα`, `θαλασσια θεα`,
				},
				Amenities: []string{"sea_view", "seaview", "sea view", "sea-view", "θεα θαλασσα"},
			},
			models.PreferenceRenovated: {
				Patterns:  []string{`renovated`, `refurbished`, `remodell?ed`, `ανακαινισμεν\p{L}*`},
				Amenities: []string{"renovated", "refurbished"},
			},
			models.PreferenceNewBuild: {
				Patterns:  []string{`new[\s-]?build`, `newly built`, `new construction`, `brand new`, `νεοδμητ\p{L}*`, `καινουργι\p{L}*`},
				Amenities: []string{"new_build", "newbuild", "new build"},
			},
			models.PreferenceGroundFloor: {
				Patterns:  []string{`ground[\s-]floor`, `ισογει\p{L}*`},
				Amenities: []string{"ground_floor", "ground floor"},
			},
			models.PreferenceQuiet: {
				Patterns:  []string{`quiet`, `peaceful`, `calm`, `ησυχ\p{L}*`, `ηρεμ\p{L}*`},
				Amenities: []string{"quiet"},
			},
			models.PreferenceBright: {
				Patterns:  []string{`bright`, `sunny`, `natural light`, `φωτειν\p{L}*`, `ηλιολουστ\p{L}*`},
				Amenities: []string{"bright", "sunny", "natural_light"},
			},
			models.PreferenceParking: {
				Patterns:  []string{`parking`, `garage`, `car space`, `παρκινγκ`, `γκαραζ`, `θεση σταθμευσησ`, `πυλωτ\p{L}*`},
				Amenities: []string{"parking", "garage", "πυλωτ"},
			},
			models.PreferenceGarden: {
				Patterns:  []string{`gardens?`, `yard`, `κηπ\p{L}*`, `αυλη`},
				Amenities: []string{"garden", "yard", "κηπ"},
			},
			models.PreferencePool: {
				Patterns:  []string{`(?:swimming )?pools?`, `πισιν\p{L}*`},
				Amenities: []string{"pool", "πισιν"},
			},
			models.PreferenceStorage: {
				Patterns:  []string{`storage`, `store ?room`, `αποθηκ\p{L}*`},
				Amenities: []string{"storage", "storeroom", "αποθηκ"},
			},
			models.PreferenceFireplace: {
				Patterns:  []string{`fireplace`, `τζακι`},
				Amenities: []string{"fireplace", "τζακι"},
			},
			models.PreferenceFurnished: {
				Patterns:  []string{`furnished`, `επιπλωμεν\p{L}*`},
				Amenities: []string{"furnished", "επιπλωμεν"},
			},
			models.PreferencePetFriendly: {
				Patterns: []string{
					`pet[\s-]?friendly`, `pets? (?:are )?(?:allowed|welcome|ok)`, `(?:allows?|accepts?) pets`,
					`κατοικιδια (?:επιτρεπονται|ευπροσδεκτα)`, `επιτρεπονται (?:τα )?κατοικιδια`, `δεκτα κατοικιδια`,
				},
				Amenities: []string{"pet_friendly", "pets_allowed", "pet friendly", "pets allowed"},
			},
			models.PreferenceAirConditioning: {
				Patterns:  []string{`air[\s-]?condition\p{L}*`, `a/c`, `κλιματισ\p{L}*`, `κλιματιστικ\p{L}*`},
				Amenities: []string{"air_condition", "aircondition", "air condition", "a/c", "κλιματισ"},
			},
			models.PreferenceHeating: {
				Patterns:  []string{`heating`, `θερμανσ\p{L}*`, `καλοριφερ`, `ενδοδαπεδι\p{L}*`},
				Amenities: []string{"heating", "θερμανσ"},
			},
			models.PreferenceShower: {
				Patterns:  []string{`showers?`, `ντουσ`},
				Amenities: []string{"shower", "ντουσ"},
			},
		},
	}
}

// LoadTable reads a YAML override file and merges it over the default table.
// Kinds present in the file replace the default entry; non-empty indicator lists replace theirs.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return table, eris.Wrapf(err, "preferences: read table %s", path)
	}

	var override Table
	if err := yaml.Unmarshal(b, &override); err != nil {
		return table, eris.Wrapf(err, "preferences: parse table %s", path)
	}

	if err := table.Merge(override); err != nil {
		return table, eris.Wrapf(err, "preferences: invalid table %s", path)
	}
	return table, nil
}

// Merge applies override on top of t
func (t *Table) Merge(override Table) error {
	for kind, patterns := range override.Kinds {
		if !kind.IsValid() {
			return eris.Errorf("unknown preference kind %q", kind)
		}
		t.Kinds[kind] = patterns
	}
	if len(override.Required) > 0 {
		t.Required = override.Required
	}
	if len(override.Preferred) > 0 {
		t.Preferred = override.Preferred
	}
	if len(override.Negative) > 0 {
		t.Negative = override.Negative
	}
	if override.MinSegmentLength > 0 {
		t.MinSegmentLength = override.MinSegmentLength
	}
	return nil
}
