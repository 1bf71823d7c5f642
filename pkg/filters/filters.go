package filters

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filter is one externally sourced constraint: a field plus the values it is
// currently restricted to. Snapshots replace each other wholesale; there is
// no merging across fetches.
type Filter struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// rawFilter is the tolerant wire shape: values may live under "values" or
// "selectedValues" and may be a list, a scalar, or a comma-separated string.
type rawFilter struct {
	Field          string          `json:"field"`
	Values         json.RawMessage `json:"values"`
	SelectedValues json.RawMessage `json:"selectedValues"`
}

// Normalize converts tolerantly decoded filter records into the canonical
// form. Records without a usable value set are dropped.
func normalize(raw []rawFilter) []Filter {
	var result []Filter
	for _, rf := range raw {
		field := rf.Field
		if field == "" {
			field = "unknown"
		}

		source := rf.Values
		if len(source) == 0 || string(source) == "null" {
			source = rf.SelectedValues
		}

		values := coerceValues(source)
		if len(values) > 0 {
			result = append(result, Filter{Field: field, Values: values})
		}
	}
	return result
}

// coerceValues turns a raw JSON value into a cleaned string slice.
func coerceValues(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		var values []string
		for _, v := range list {
			s := strings.TrimSpace(stringify(v))
			if s != "" {
				values = append(values, s)
			}
		}
		return values
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var values []string
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		return values
	}

	// Scalar (number, bool): single-element set
	var scalar any
	if err := json.Unmarshal(raw, &scalar); err == nil && scalar != nil {
		if s := strings.TrimSpace(stringify(scalar)); s != "" {
			return []string{s}
		}
	}
	return nil
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		// Render integral floats without the trailing ".0" JSON gives ints
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
