package entitlement

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IsServiceIncluded reports whether a free-text entitlement spec covers a
// service. The spec may be a JSON array of terms, a JSON object whose keys
// are terms, or comma-separated text. A term matches when it contains the
// service name or the name contains it (case-insensitive), or when it equals
// serviceID.
//
// Short overlapping names match loosely ("Corte" covers "Corte Infantil").
func IsServiceIncluded(includedSpec, serviceName, serviceID string) bool {
	name := normalize(serviceName)
	id := normalize(serviceID)

	for _, term := range ParseTerms(includedSpec) {
		if id != "" && term == id {
			return true
		}
		if name == "" {
			continue
		}
		if strings.Contains(term, name) || strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// ParseTerms returns the normalized, non-empty terms of a spec.
func ParseTerms(includedSpec string) []string {
	raw := strings.TrimSpace(includedSpec)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil
	}

	var terms []string

	var list []any
	var object map[string]any
	switch {
	case json.Unmarshal([]byte(raw), &list) == nil:
		for _, item := range list {
			switch v := item.(type) {
			case string:
				terms = append(terms, v)
			case float64:
				terms = append(terms, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
	case json.Unmarshal([]byte(raw), &object) == nil:
		for k := range object {
			terms = append(terms, k)
		}
	default:
		for _, part := range strings.Split(raw, ",") {
			terms = append(terms, strings.Trim(part, "\"'[]{} "))
		}
	}

	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
