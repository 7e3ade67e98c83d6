// Package validation checks booking and account input using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// DateLayout is the calendar date format used for booking dates.
const DateLayout = "2006-01-02"

// passwordSpecials are the characters a password must contain at least one of.
const passwordSpecials = "!@#$%^&*"

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	//nolint:errcheck // Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("ymd", isDate)
	//nolint:errcheck // Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("password", isStrongPassword)
	//nolint:errcheck // Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error naming every invalid field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Collect all field errors
	fieldErrors := make(map[string]string)
	fields := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		if _, seen := fieldErrors[e.Field()]; !seen {
			fields = append(fields, e.Field())
		}
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}
	slices.Sort(fields)

	return domainerrors.ValidationWithDetails("invalid fields: "+strings.Join(fields, ", "), fieldErrors)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "ymd":
		return "must be a date in YYYY-MM-DD format"
	case "password":
		return "must contain at least one number and one of " + passwordSpecials
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "eqfield":
		return "must match " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

// isDate accepts empty strings (left to "required") and YYYY-MM-DD dates.
func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func isStrongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.ContainsAny(s, "0123456789") && strings.ContainsAny(s, passwordSpecials)
}
