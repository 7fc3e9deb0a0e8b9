package intake

import (
	"fmt"
	"strings"
)

// ValidationError rejects a whole upload batch before any downstream effect.
// Field identifies the offending part where one exists; Allowed echoes the
// acceptable content types for the part's class.
type ValidationError struct {
	Field   string
	Allowed []string
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func errContentType(field, contentType string, class MimeClass) *ValidationError {
	allowed := Allowed(class)
	return &ValidationError{
		Field:   field,
		Allowed: allowed,
		message: fmt.Sprintf("file field %q: content type %q is not accepted; allowed types: %s",
			field, contentType, strings.Join(allowed, ", ")),
	}
}

func errFileTooLarge(field string, size, limit int64) *ValidationError {
	return &ValidationError{
		Field:   field,
		message: fmt.Sprintf("file field %q: %d bytes exceeds the per-file limit of %d bytes", field, size, limit),
	}
}

func errSingularField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		message: fmt.Sprintf("file field %q accepts exactly one file", field),
	}
}

func errTooManyFiles(count, limit int) *ValidationError {
	return &ValidationError{
		message: fmt.Sprintf("too many files: %d exceeds the limit of %d per request", count, limit),
	}
}

func errPayloadTooLarge(limit int64) *ValidationError {
	return &ValidationError{
		message: fmt.Sprintf("request payload exceeds the limit of %d bytes", limit),
	}
}
