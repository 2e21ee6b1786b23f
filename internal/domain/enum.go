package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseEnum resolves a case-insensitive name or a 1-based ordinal against names.
func parseEnum(raw string, names []string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, name := range names {
		if strings.EqualFold(trimmed, name) {
			return name, true
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(names) {
		return names[n-1], true
	}
	return trimmed, false
}

// unmarshalEnum decodes a JSON string or number into its textual form.
func unmarshalEnum(data []byte, names []string) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		value, _ := parseEnum(s, names)
		return value
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		value, _ := parseEnum(n.String(), names)
		return value
	}
	return string(data)
}
