// Package timing converts between clock-formatted durations and milliseconds.
package timing

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLapTime parses "MM:SS.mmm" or "MM:SS" into milliseconds.
// The fractional part is right-padded or truncated to three digits.
// Empty or malformed input reports false.
func ParseLapTime(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	minPart, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	secPart, fracPart, hasFrac := strings.Cut(rest, ".")

	minutes, ok := digits(minPart)
	if !ok {
		return 0, false
	}
	seconds, ok := digits(secPart)
	if !ok || seconds >= 60 {
		return 0, false
	}

	millis := 0
	if hasFrac {
		if fracPart == "" {
			return 0, false
		}
		if len(fracPart) > 3 {
			fracPart = fracPart[:3]
		}
		for len(fracPart) < 3 {
			fracPart += "0"
		}
		if millis, ok = digits(fracPart); !ok {
			return 0, false
		}
	}

	return minutes*60_000 + seconds*1_000 + millis, true
}

// ParseStopDuration parses a pit stop duration, either seconds ("22.523")
// or clock form ("16:44.718"), into milliseconds.
func ParseStopDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return ParseLapTime(s)
	}
	if s == "" {
		return 0, false
	}
	return ParseLapTime("0:" + s)
}

// FormatMillis renders a millisecond count as "MM:SS.mmm".
// Minutes are not wrapped into hours.
func FormatMillis(ms int) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60_000
	seconds := (ms % 60_000) / 1_000
	millis := ms % 1_000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// FormatMillisString formats an upstream millisecond digit string such as
// "23312" as "00:23.312".
func FormatMillisString(s string) (string, bool) {
	ms, ok := digits(strings.TrimSpace(s))
	if !ok {
		return "", false
	}
	return FormatMillis(ms), true
}

func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
