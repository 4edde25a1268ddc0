package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/models"
)

func run(t *testing.T, stdin string, args ...string) []byte {
	t.Helper()

	out, err := execute(t, stdin, args...)
	require.NoError(t, err)
	return out
}

func execute(t *testing.T, stdin string, args ...string) ([]byte, error) {
	t.Helper()

	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
		extractFile = ""
		rankFile = ""
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.Bytes(), err
}

func TestExtractCommand(t *testing.T) {
	t.Run("arguments", func(t *testing.T) {
		var prefs []models.ExtractedPreference
		require.NoError(t, json.Unmarshal(run(t, "", "extract", "Elevator is essential."), &prefs))
		assert.Equal(t, []models.ExtractedPreference{
			{Type: models.PreferenceElevator, Value: true, Importance: models.ImportanceRequired},
		}, prefs)
	})

	t.Run("stdin", func(t *testing.T) {
		var prefs []models.ExtractedPreference
		require.NoError(t, json.Unmarshal(run(t, "Θέλουμε οπωσδήποτε ασανσέρ.", "extract"), &prefs))
		require.Len(t, prefs, 1)
		assert.Equal(t, models.PreferenceElevator, prefs[0].Type)
	})

	t.Run("nothing found", func(t *testing.T) {
		assert.JSONEq(t, `[]`, string(run(t, "", "extract", "Call after six.")))
	})
}

func TestRankCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "pairs.yaml")
	require.NoError(t, os.WriteFile(input, []byte(`
profiles:
  - id: c1
    budget_max: 300000
    locations: [Kifissia]
listings:
  - id: p1
    price: 250000
    location: Κηφισιά
  - id: p2
    price: 400000
    location: Kifissia
`), 0o644))

	var results []models.MatchResult
	require.NoError(t, json.Unmarshal(run(t, "", "rank", "--file", input, "--threshold", "60"), &results))

	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ProfileID)
	assert.Equal(t, "p1", results[0].ListingID)
	assert.Equal(t, 100, results[0].OverallScore)
}

func TestRankCommand_RejectsUnknownImportance(t *testing.T) {
	input := filepath.Join(t.TempDir(), "pairs.yaml")
	require.NoError(t, os.WriteFile(input, []byte(`
profiles:
  - id: c1
    preferences:
      - type: elevator
        value: true
        importance: urgent
listings:
  - id: p1
    elevator: true
`), 0o644))

	_, err := execute(t, "", "rank", "--file", input)
	require.Error(t, err)

	var httpErr *httperror.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Contains(t, httpErr.Message, "Importance")
}
