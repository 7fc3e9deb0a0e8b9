package intake

import "slices"

// MimeClass is the logical role of an upload field. The class decides which
// content types are acceptable for parts submitted under that field.
type MimeClass int

const (
	ClassUnknown MimeClass = iota
	ClassImage
	ClassVideo
	ClassDocument
)

func (c MimeClass) String() string {
	switch c {
	case ClassImage:
		return "image"
	case ClassVideo:
		return "video"
	case ClassDocument:
		return "document"
	default:
		return "unknown"
	}
}

// fieldRule maps a field-name pattern to a class. Exactly one of prefix or
// exact is set. Adding a new upload role is a table edit, not a logic change.
type fieldRule struct {
	prefix   string
	exact    string
	class    MimeClass
	singular bool
}

var fieldRules = []fieldRule{
	{prefix: "photos", class: ClassImage},
	{exact: "videoTour", class: ClassVideo, singular: true},
	{prefix: "documents", class: ClassDocument},
}

var allowLists = map[MimeClass][]string{
	ClassImage:    {"image/jpeg", "image/png", "image/webp"},
	ClassVideo:    {"video/mp4", "video/webm", "video/quicktime"},
	ClassDocument: {"application/pdf", "image/jpeg", "image/png"},
}

func matchRule(field string) (fieldRule, bool) {
	for _, r := range fieldRules {
		if r.exact != "" {
			if field == r.exact {
				return r, true
			}
			continue
		}

		if len(field) >= len(r.prefix) && field[:len(r.prefix)] == r.prefix {
			return r, true
		}
	}

	return fieldRule{}, false
}

// Classify resolves an upload field name to its MimeClass. Field names that
// match no rule classify as ClassUnknown and are rejected at ingest.
func Classify(field string) MimeClass {
	if r, ok := matchRule(field); ok {
		return r.class
	}

	return ClassUnknown
}

// Singular reports whether the field holds exactly one value. Repeatable
// fields collect into an ordered slice instead.
func Singular(field string) bool {
	if r, ok := matchRule(field); ok {
		return r.singular
	}

	return false
}

// Allowed returns the content types acceptable for the class. For
// ClassUnknown it returns the image list: rejection messages for
// unclassifiable fields deliberately echo the image allow-list so the caller
// always gets a concrete list back. Changing that is a policy decision.
func Allowed(class MimeClass) []string {
	list, ok := allowLists[class]
	if !ok {
		list = allowLists[ClassImage]
	}

	return slices.Clone(list)
}

// IsAllowed is a pure membership test against the class's allow-list.
func IsAllowed(class MimeClass, contentType string) bool {
	return slices.Contains(allowLists[class], contentType)
}
