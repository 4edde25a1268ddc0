package preferences

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/models"
)

func pref(kind models.PreferenceKind, value bool, importance models.Importance) models.ExtractedPreference {
	return models.ExtractedPreference{Type: kind, Value: value, Importance: importance}
}

func TestExtractor_Extract(t *testing.T) {
	e := NewDefaultExtractor()

	tests := []struct {
		name     string
		text     string
		expected []models.ExtractedPreference
	}{
		{
			name: "importance follows the closest indicator",
			text: "I must have a balcony and prefer a sea view, no pets needed",
			expected: []models.ExtractedPreference{
				pref(models.PreferenceBalcony, true, models.ImportanceRequired),
				pref(models.PreferenceSeaView, true, models.ImportancePreferred),
			},
		},
		{
			name:     "negated clause",
			text:     "We don't want a ground floor apartment.",
			expected: []models.ExtractedPreference{pref(models.PreferenceGroundFloor, false, models.ImportancePreferred)},
		},
		{
			name: "greek notes",
			text: "Θέλουμε οπωσδήποτε ασανσέρ. Θα προτιμούσαμε μπαλκόνι με θέα στη θάλασσα.",
			expected: []models.ExtractedPreference{
				pref(models.PreferenceElevator, true, models.ImportanceRequired),
				pref(models.PreferenceBalcony, true, models.ImportancePreferred),
				pref(models.PreferenceSeaView, true, models.ImportancePreferred),
			},
		},
		{
			name: "indicator after the mention applies to the clause",
			text: "Parking would be nice. Elevator is essential.",
			expected: []models.ExtractedPreference{
				pref(models.PreferenceParking, true, models.ImportanceNiceToHave),
				pref(models.PreferenceElevator, true, models.ImportanceRequired),
			},
		},
		{
			name:     "clause indicator outranks a stronger one elsewhere in the sentence",
			text:     "I prefer a balcony, it is essential",
			expected: []models.ExtractedPreference{pref(models.PreferenceBalcony, true, models.ImportancePreferred)},
		},
		{
			name: "segment indicator is the fallback",
			text: "Bright rooms, quiet street, both essential",
			expected: []models.ExtractedPreference{
				pref(models.PreferenceBright, true, models.ImportanceRequired),
				pref(models.PreferenceQuiet, true, models.ImportanceRequired),
			},
		},
		{
			name:     "negative prefix words do not negate",
			text:     "A furnished flat near the north station",
			expected: []models.ExtractedPreference{pref(models.PreferenceFurnished, true, models.ImportanceNiceToHave)},
		},
		{
			name:     "unfurnished is not furnished",
			text:     "An unfurnished flat is fine",
			expected: []models.ExtractedPreference{},
		},
		{
			name:     "short segments are ignored",
			text:     "Lift. ",
			expected: []models.ExtractedPreference{},
		},
		{
			name:     "empty text",
			text:     "   ",
			expected: []models.ExtractedPreference{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Extract(tt.text))
		})
	}
}

func TestExtractor_Dedup(t *testing.T) {
	e := NewDefaultExtractor()

	t.Run("strongest importance wins and keeps the first position", func(t *testing.T) {
		got := e.Extract("Parking would be nice. Elevator is essential. Parking is a must.")
		assert.Equal(t, []models.ExtractedPreference{
			pref(models.PreferenceParking, true, models.ImportanceRequired),
			pref(models.PreferenceElevator, true, models.ImportanceRequired),
		}, got)
	})

	t.Run("tie keeps the earliest mention", func(t *testing.T) {
		got := e.Extract("No pool please. Pool would be fun.")
		assert.Equal(t, []models.ExtractedPreference{
			pref(models.PreferencePool, false, models.ImportanceNiceToHave),
		}, got)
	})

	t.Run("each kind appears once", func(t *testing.T) {
		got := e.Extract("Balcony, balcony, balcony! We need a balcony. A terrace would be great.")
		require.Len(t, got, 1)
		assert.Equal(t, models.PreferenceBalcony, got[0].Type)
		assert.Equal(t, models.ImportanceRequired, got[0].Importance)
	})
}

func TestExtractor_Idempotent(t *testing.T) {
	e := NewDefaultExtractor()
	text := "I must have a balcony and prefer a sea view, no pets needed"

	first := e.Extract(text)
	assert.Equal(t, first, e.Extract(text))
	assert.Equal(t, first, e.Extract(text+". "+text))
}

func TestExtractor_Mentions(t *testing.T) {
	e := NewDefaultExtractor()
	description := "Φωτεινό διαμέρισμα με μεγάλο μπαλκόνι και αποθήκη"

	assert.True(t, e.Mentions(models.PreferenceBalcony, description))
	assert.True(t, e.Mentions(models.PreferenceStorage, description))
	assert.True(t, e.Mentions(models.PreferenceBright, description))
	assert.False(t, e.Mentions(models.PreferencePool, description))
	assert.False(t, e.Mentions(models.PreferencePool, ""))
	assert.False(t, e.Mentions(models.PreferenceKind("sauna"), description))
}

func TestExtractor_AmenityKeywords(t *testing.T) {
	e := NewDefaultExtractor()

	assert.Contains(t, e.AmenityKeywords(models.PreferenceSeaView), "sea_view")
	assert.Contains(t, e.AmenityKeywords(models.PreferenceBalcony), "μπαλκον")
	assert.Nil(t, e.AmenityKeywords(models.PreferenceKind("sauna")))
}

func TestDefaultTable_CoversVocabulary(t *testing.T) {
	e := NewDefaultExtractor()
	require.NoError(t, e.Validate())
	assert.Equal(t, models.PreferenceKinds(), e.Kinds())

	for _, kind := range models.PreferenceKinds() {
		assert.NotEmpty(t, DefaultTable().Kinds[kind].Amenities, "amenity keywords for %s", kind)
	}
}

func TestExtractor_Validate(t *testing.T) {
	table := DefaultTable()
	delete(table.Kinds, models.PreferencePool)

	e, err := NewExtractor(table)
	require.NoError(t, err)

	err = e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool")
}

func TestExtractor_Version(t *testing.T) {
	a := NewDefaultExtractor()
	b := NewDefaultExtractor()
	assert.NotEmpty(t, a.Version())
	assert.Equal(t, a.Version(), b.Version())

	table := DefaultTable()
	table.Required = append(table.Required, "crucial")
	changed, err := NewExtractor(table)
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), changed.Version())
}

func TestLoadTable(t *testing.T) {
	t.Run("empty path returns the default table", func(t *testing.T) {
		table, err := LoadTable("")
		require.NoError(t, err)
		assert.Equal(t, DefaultTable(), table)
	})

	t.Run("override replaces a kind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "table.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
kinds:
  pool:
    patterns: ["jacuzzi"]
    amenities: ["jacuzzi"]
min_segment_length: 3
`), 0o600))

		table, err := LoadTable(path)
		require.NoError(t, err)
		assert.Equal(t, 3, table.MinSegmentLength)
		assert.NotEmpty(t, table.Required)

		e, err := NewExtractor(table)
		require.NoError(t, err)
		assert.Equal(t, []models.ExtractedPreference{
			pref(models.PreferencePool, true, models.ImportancePreferred),
		}, e.Extract("We want a jacuzzi"))
		assert.Empty(t, e.Extract("We want a swimming pool"))
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "table.yaml")
		require.NoError(t, os.WriteFile(path, []byte("kinds:\n  sauna:\n    patterns: [sauna]\n"), 0o600))

		_, err := LoadTable(path)
		assert.Error(t, err)
	})

	t.Run("invalid pattern fails to compile", func(t *testing.T) {
		table := DefaultTable()
		table.Kinds[models.PreferencePool] = KindPatterns{Patterns: []string{"(unclosed"}}

		_, err := NewExtractor(table)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
