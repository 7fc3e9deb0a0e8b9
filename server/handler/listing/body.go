package listing

import (
	"strconv"
)

// Multipart form values arrive as strings (or string slices for repeated
// keys); these helpers coerce them into the listing's field types.

func stringValue(values map[string]any, key string) string {
	switch v := values[key].(type) {
	case string:
		return v
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				return s
			}
		}
	}

	return ""
}

func intValue(values map[string]any, key string) int {
	n, err := strconv.Atoi(stringValue(values, key))
	if err != nil {
		return 0
	}

	return n
}

func int64Value(values map[string]any, key string) int64 {
	n, err := strconv.ParseInt(stringValue(values, key), 10, 64)
	if err != nil {
		return 0
	}

	return n
}

func floatValue(values map[string]any, key string) float64 {
	f, err := strconv.ParseFloat(stringValue(values, key), 64)
	if err != nil {
		return 0
	}

	return f
}

func mediaString(media map[string]any, key string) string {
	s, _ := media[key].(string)
	return s
}

func mediaStrings(media map[string]any, key string) []string {
	urls, _ := media[key].([]string)
	return urls
}
