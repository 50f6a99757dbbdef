package usecase

import (
	"errors"
	"time"
)

// Clock supplies "now" to the upcoming-window queries.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

var errInvalidTime = errors.New("invalid time")

// timeLayouts are tried in order. Values without an offset are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, error) {
	t, err := parseInput(raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseDate keeps only the calendar date as written, at midnight UTC.
// "2026-03-05T22:00:00-05:00" is March 5th, not March 6th.
func parseDate(raw string) (time.Time, error) {
	t, err := parseInput(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseInput(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidTime
}
