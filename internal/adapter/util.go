package adapter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// flexString decodes a JSON string or number into a string. Boards are
// inconsistent about the type of their identifiers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// stringList decodes either a single string or a list into a slice.
// Non-string list items are rendered with their descriptor when they
// carry one, otherwise with fmt.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			*l = stringList{s}
		}
		return nil
	}

	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("expected string or list, got %s", b)
	}
	out := make(stringList, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			if d, ok := v["descriptor"].(string); ok && d != "" {
				out = append(out, d)
			}
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	*l = out
	return nil
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// postingID joins the parts of a globally unique posting id.
func postingID(parts ...string) string {
	return strings.Join(parts, ":")
}
