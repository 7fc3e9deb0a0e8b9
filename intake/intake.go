package intake

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"sort"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
)

// Part is one file member of a multipart request, buffered fully in memory.
// It lives only for the duration of the request that carried it.
type Part struct {
	Field       string // canonical field name, bracket suffix stripped
	Filename    string
	ContentType string
	Data        []byte
}

func (p *Part) Size() int64 {
	return int64(len(p.Data))
}

// Limits are the ingest ceilings. All three must be positive.
type Limits struct {
	MaxPayloadSize int64
	MaxFileSize    int64
	MaxFileCount   int
}

// Batch holds every accepted part of one request, grouped by canonical field
// name, plus the non-file form values. Repeatable-field groups preserve
// submission order; gallery consumers render in upload order.
type Batch struct {
	Values map[string]any

	fields []string
	groups map[string][]*Part
}

// Fields returns the canonical file field names in first-seen order.
func (b *Batch) Fields() []string {
	return slices.Clone(b.fields)
}

// Parts returns the parts submitted under a canonical field name, in
// submission order.
func (b *Batch) Parts(field string) []*Part {
	return b.groups[field]
}

// Len is the total number of parts in the batch.
func (b *Batch) Len() int {
	n := 0
	for _, g := range b.groups {
		n += len(g)
	}

	return n
}

// Clients submit repeatable fields either as a repeated bare name, as
// "name[]", or as "name[0]", "name[1]", ... with explicit ordinals.
var bracketSuffix = regexp.MustCompile(`\[(\d*)\]$`)

func splitField(raw string) (base string, ordinal int) {
	m := bracketSuffix.FindStringSubmatch(raw)
	if m == nil {
		return raw, -1
	}

	base = raw[:len(raw)-len(m[0])]
	if m[1] == "" {
		return base, -1
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return base, -1
	}

	return base, n
}

type partEntry struct {
	part    *Part
	ordinal int
}

// Ingest buffers every file part of a multipart request into memory and
// validates the batch as a whole: per-file and per-request byte ceilings, the
// part-count ceiling, and the MIME policy for every (field, content type)
// pair. Any single violation rejects the entire batch with a
// *ValidationError before any network or disk effect; there is no partial
// acceptance.
func Ingest(w http.ResponseWriter, r *http.Request, limits Limits) (*Batch, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxPayloadSize)
	if err := r.ParseMultipartForm(limits.MaxPayloadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errPayloadTooLarge(limits.MaxPayloadSize)
		}

		return nil, &ValidationError{message: fmt.Sprintf("malformed multipart payload: %v", err)}
	}

	batch := &Batch{
		Values: extractValues(r),
		groups: make(map[string][]*Part),
	}

	if r.MultipartForm == nil {
		return batch, nil
	}

	form := r.MultipartForm

	total := 0
	for _, fhs := range form.File {
		total += len(fhs)
	}

	if total > limits.MaxFileCount {
		return nil, errTooManyFiles(total, limits.MaxFileCount)
	}

	// Iterate raw field names in sorted order so grouping is deterministic;
	// explicit ordinals are reconciled per group below.
	rawFields := make([]string, 0, len(form.File))
	for key := range form.File {
		rawFields = append(rawFields, key)
	}
	sort.Strings(rawFields)

	entries := make(map[string][]partEntry)

	for _, raw := range rawFields {
		base, ordinal := splitField(raw)
		class := Classify(base)

		for _, fh := range form.File[raw] {
			contentType := fh.Header.Get("Content-Type")

			if limits.MaxFileSize > 0 && fh.Size > limits.MaxFileSize {
				return nil, errFileTooLarge(raw, fh.Size, limits.MaxFileSize)
			}

			f, err := fh.Open()
			if err != nil {
				return nil, &ValidationError{
					Field:   raw,
					message: fmt.Sprintf("file field %q: could not read part: %v", raw, err),
				}
			}

			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, &ValidationError{
					Field:   raw,
					message: fmt.Sprintf("file field %q: could not read part: %v", raw, err),
				}
			}

			if contentType == "" {
				contentType = mimetype.Detect(data).String()
			}

			if class == ClassUnknown || !IsAllowed(class, contentType) {
				return nil, errContentType(raw, contentType, class)
			}

			entries[base] = append(entries[base], partEntry{
				part: &Part{
					Field:       base,
					Filename:    fh.Filename,
					ContentType: contentType,
					Data:        data,
				},
				ordinal: ordinal,
			})
		}
	}

	for _, raw := range rawFields {
		base, _ := splitField(raw)
		group, ok := entries[base]
		if !ok {
			continue
		}
		delete(entries, base)

		if Singular(base) && len(group) > 1 {
			return nil, errSingularField(base)
		}

		// Explicit ordinals win; unindexed parts keep their submission order.
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].ordinal >= 0 && group[j].ordinal >= 0 {
				return group[i].ordinal < group[j].ordinal
			}

			return false
		})

		parts := make([]*Part, len(group))
		for i, e := range group {
			parts[i] = e.part
		}

		batch.fields = append(batch.fields, base)
		batch.groups[base] = parts
	}

	return batch, nil
}

func extractValues(r *http.Request) map[string]any {
	values := make(map[string]any)

	if r.MultipartForm != nil {
		for key, arr := range r.MultipartForm.Value {
			switch len(arr) {
			case 0:
				continue
			case 1:
				values[key] = arr[0]
			default:
				asAny := make([]any, len(arr))
				for i, v := range arr {
					asAny[i] = v
				}
				values[key] = asAny
			}
		}
	}

	return values
}
