// Package validation wraps the go-playground/validator library, providing
// declarative struct validation with standardized error formatting. Fields
// are validated through tags (e.g. `validate:"required"`), and violations are
// reported as a multi-error chain rooted at ErrValidation.
package validation

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidation is the first error in the chain returned when one or more
// validation rules are violated, so callers can detect failures with
// errors.Is even when several fields failed.
var ErrValidation = errors.New("validation error")

// validator is the singleton instance, initialized on package load.
var validator *gvalidator.Validate

// errStringFormat describes a single field violation.
//
// Example: "'Endpoint': value '' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
}

// formatError turns a raw validator error into a readable multi-error chain
// rooted at ErrValidation. Non-validation errors are returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidation}
	for _, validationErr := range validationErrors {
		err := fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Validate checks the given struct against its validation tags. It returns
// nil when every field passes, or a combined error containing ErrValidation
// and one message per violated field.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
