package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/indieprop/homestead/intake"
	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/util"
	"github.com/indieprop/homestead/storage/docs"
	"github.com/indieprop/homestead/storage/media"
)

// LogAndWriteError logs an error with request context and maps the error
// taxonomy to client responses: intake and schema validation reject with 400,
// storage failures with a generic 500 (provider detail stays in the logs),
// missing documents with 404.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.FromContext(r.Context())
	if rl == nil {
		rl = util.WithRequest(log.Default(), r, "")
	}
	rl.Errorf("%s failed: %v", op, err)

	var (
		validationErr *intake.ValidationError
		schemaErr     *schema.ValidationError
		duplicateErr  *docs.DuplicateError
		storageErr    *media.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		resp.WriteBadRequest(w, validationErr.Error())
	case errors.As(err, &schemaErr):
		resp.WriteBadRequest(w, schemaErr.Error())
	case errors.As(err, &duplicateErr):
		schemaErr = &schema.ValidationError{Violations: []schema.FieldViolation{
			{Field: duplicateErr.Field, Constraint: "unique"},
		}}
		resp.WriteBadRequest(w, schemaErr.Error())
	case errors.As(err, &storageErr):
		resp.WriteInternalServerError(w, "failed to upload media")
	case errors.Is(err, docs.ErrNotFound):
		resp.WriteNotFound(w, "not found")
	default:
		resp.WriteInternalServerError(w, fmt.Sprintf("%s failed", op))
	}
}
