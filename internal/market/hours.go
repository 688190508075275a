// Package market decides whether the venue is currently in its regular
// trading session. The predicate is purely time-of-day; it never touches
// the network.
package market

import (
	"fmt"
	"time"
)

// Hours is the venue's regular session window.
type Hours struct {
	loc       *time.Location
	openMins  int // minutes since midnight
	closeMins int
}

// NewHours builds a session window from "HH:MM" bounds in the given zone.
func NewHours(timezone, open, close string) (*Hours, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", timezone, err)
	}

	openMins, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("parse open %q: %w", open, err)
	}
	closeMins, err := parseClock(close)
	if err != nil {
		return nil, fmt.Errorf("parse close %q: %w", close, err)
	}
	if closeMins <= openMins {
		return nil, fmt.Errorf("close %s must be after open %s", close, open)
	}

	return &Hours{loc: loc, openMins: openMins, closeMins: closeMins}, nil
}

// IsOpen reports whether t falls inside the regular session
// (weekdays, open inclusive, close exclusive).
func (h *Hours) IsOpen(t time.Time) bool {
	local := t.In(h.loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	mins := local.Hour()*60 + local.Minute()
	return mins >= h.openMins && mins < h.closeMins
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
