package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Collection names for the document store.
const (
	CollectionListings  = "listings"
	CollectionLeads     = "leads"
	CollectionEnquiries = "enquiries"
	CollectionPayments  = "payments"
	CollectionUsers     = "users"
)

// FieldViolation is one structural constraint a document failed.
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

// ValidationError reports every violated field of a document, not just the
// first. Uniqueness violations surfaced by the document store are folded into
// the same shape by the route layer.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s (%s)", v.Field, v.Constraint)
	}

	return "invalid document: " + strings.Join(parts, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the json field names clients submitted.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return v
}

// Validate applies a document's structural constraints: required fields, enum
// membership, string patterns. Returns a *ValidationError listing all
// violations, or nil.
func Validate(doc any) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}

		out.Violations = append(out.Violations, FieldViolation{
			Field:      fe.Field(),
			Constraint: constraint,
		})
	}

	return out
}
