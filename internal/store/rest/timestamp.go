package rest

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestamp decodes the createdat column. Columns typed "timestamp" come back
// without a zone offset and are interpreted as UTC.
type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("createdat: %w", err)
	}
	if raw == nil || *raw == "" {
		*t = timestamp(time.Time{})
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			*t = timestamp(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("createdat: unrecognised timestamp %q", *raw)
}
