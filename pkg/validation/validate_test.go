package validation

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required"`
	Limit int    `validate:"min=1"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		v, err := Validate(sample{Name: "a", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, "a", v.Name)
	})

	t.Run("every failed field is reported", func(t *testing.T) {
		_, err := Validate(sample{Limit: 0})
		require.Error(t, err)
		assert.True(t, httperror.IsHTTPError(err))
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "'sample.Name'")
		assert.Contains(t, err.Error(), "rule 'min' expected '1', got '0'")
	})
}
