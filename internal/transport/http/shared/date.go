package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts the plain date layout used throughout the API, or a full
// RFC3339 timestamp for callers that send one. Empty input parses to the zero
// time so optional date filters fall through cleanly.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
