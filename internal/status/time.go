package status

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// timeLayout is ISO-8601 with millisecond precision in UTC, so records
// written within the same second still order correctly.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func now() string {
	return timeNow().UTC().Format(timeLayout)
}

// parseTimestamp accepts the stored layout and plain RFC3339.
func parseTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
