// Package validation wraps go-playground/validator with readable, HTTP-mapped errors
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of value and returns a 400 error describing every failed rule
func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, ValidationErrorToString(value, err)
	}
	return value, nil
}

// ValidationErrorToString converts validator errors into a single 400 error listing each failed field
func ValidationErrorToString(input any, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("failed %T validation for field '%s': rule '%s' expected '%s', got '%v'", input, fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return httperror.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
}
