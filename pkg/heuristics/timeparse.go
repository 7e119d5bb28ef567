package heuristics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeLimitPattern = regexp.MustCompile(`(?i)(\d+)(h|m)`)

// NormalizeDeadline parses a caller-supplied deadline string and converts it
// to UTC. Strings without an offset are interpreted in the caller's timezone
// (IANA name); a missing or unknown timezone falls back to UTC. A parse
// failure yields nil, never an error.
func NormalizeDeadline(raw, timezone string) *time.Time {
	if raw == "" {
		return nil
	}

	loc := time.UTC
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		utc := parsed.UTC()
		return &utc
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}

	return nil
}

// ParseTimeLimitMinutes extracts a minutes value from a time-limit constraint
// such as "45m" or "2h". Returns 0 when no limit can be parsed.
func ParseTimeLimitMinutes(timeLimit string) int {
	if timeLimit == "" {
		return 0
	}

	match := timeLimitPattern.FindStringSubmatch(timeLimit)
	if match == nil {
		return 0
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	if strings.EqualFold(match[2], "h") {
		return value * 60
	}

	return value
}

// ClampMinutes bounds a minutes value to the inclusive [minBound, maxBound] range.
func ClampMinutes(minutes, minBound, maxBound int) int {
	if minutes < minBound {
		return minBound
	}

	if minutes > maxBound {
		return maxBound
	}

	return minutes
}

// FormatDeadline renders a UTC instant in the compact Japanese date-time form
// used by rationale and coaching text, in the given timezone when resolvable.
func FormatDeadline(t time.Time, timezone string) string {
	loc := time.UTC
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}

	return t.In(loc).Format("2006/01/02 15:04")
}
