package canary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseTimeFlag converts a --from-time/--to-time value to epoch seconds.
// Accepted forms: epoch seconds, RFC 3339, "now", or a negative duration
// relative to now ("-1h", "-90m"). An empty value returns nil.
func parseTimeFlag(value string, now time.Time) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if value == "now" {
		ts := now.Unix()
		return &ts, nil
	}

	if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &ts, nil
	}

	if strings.HasPrefix(value, "-") {
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid relative time %q: %w", value, err)
		}
		ts := now.Add(d).Unix()
		return &ts, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		ts := t.Unix()
		return &ts, nil
	}

	if _, err := time.ParseDuration(value); err == nil {
		return nil, fmt.Errorf("invalid time %q: relative times must be negative (e.g. -%s)", value, value)
	}

	return nil, fmt.Errorf("invalid time %q: use epoch seconds, RFC 3339, now, or a negative duration such as -1h", value)
}
