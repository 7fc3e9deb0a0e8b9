package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound reports that no document exists under the requested id.
var ErrNotFound = errors.New("document not found")

// DuplicateError reports a uniqueness violation on an indexed field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for unique field %q", e.Field)
}

// Collection describes one document collection. Unique lists the json field
// names that get dedicated unique-indexed columns.
type Collection struct {
	Name   string
	Unique []string
}

// Store persists validated, already-transcoded documents. Content validation
// happens upstream in the intake pipeline; the store only owes structural
// durability, id lookup and uniqueness on indexed fields.
type Store interface {
	Insert(ctx context.Context, collection, id string, doc any) error
	Get(ctx context.Context, collection, id string, out any) error
	List(ctx context.Context, collection string, limit, offset int) ([]json.RawMessage, error)
	Update(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}
