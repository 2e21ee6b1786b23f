package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339, a timestamp without zone, or a bare date.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// Timestamp is a request time field decoded with ParseTimestamp.
type Timestamp time.Time

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// utc returns the stored instant at microsecond precision, or nil.
func utc(t *Timestamp) *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t).UTC().Truncate(time.Microsecond)
	return &v
}
