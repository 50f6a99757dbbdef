package entity

import "time"

// DefaultUpcomingHorizon is how far ahead of "now" the upcoming views look.
const DefaultUpcomingHorizon = 7 * 24 * time.Hour

// UpcomingWindow is the closed interval [From, To] used by the upcoming
// appointment and refill queries.
type UpcomingWindow struct {
	From time.Time
	To   time.Time
}

// NewUpcomingWindow anchors the window at now. The instant is normalized to
// UTC and truncated to microseconds, the resolution of timestamptz, so a row
// stored with the same instant as now still matches the lower bound.
func NewUpcomingWindow(now time.Time, horizon time.Duration) UpcomingWindow {
	if horizon <= 0 {
		horizon = DefaultUpcomingHorizon
	}
	from := now.UTC().Truncate(time.Microsecond)
	return UpcomingWindow{From: from, To: from.Add(horizon)}
}

// Contains reports whether t falls inside the window, both ends included.
func (w UpcomingWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}
