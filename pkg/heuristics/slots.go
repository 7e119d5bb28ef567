package heuristics

import "time"

const halfHourMinutes = 30

// SnapToHour truncates a time to the top of its hour.
func SnapToHour(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// SnapToHalfHour snaps the minutes to the half-hour boundary at or below the
// given time (:00 for minutes below 30, :30 otherwise).
func SnapToHalfHour(t time.Time) time.Time {
	minute := 0
	if t.Minute() >= halfHourMinutes {
		minute = halfHourMinutes
	}

	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

// EnsureBuffer pushes start forward in half-hour increments until it is at
// least buffer after now. Snapping can move a start below the buffer again,
// so this runs after every snap.
func EnsureBuffer(start, now time.Time, buffer time.Duration) time.Time {
	earliest := now.Add(buffer)
	for start.Before(earliest) {
		start = start.Add(halfHourMinutes * time.Minute)
	}

	return start
}

// AtDayPart returns the given day with the clock set to hour:minute.
func AtDayPart(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// Dedupe removes duplicate strings preserving first-seen order.
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}

		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}
