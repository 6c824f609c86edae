package timeseries

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar is a set of holiday dates. Membership is tested by exact
// calendar date; time of day is ignored.
type Calendar struct {
	dates map[string]struct{}
}

// NewCalendar creates a calendar from a list of dates.
func NewCalendar(dates []time.Time) *Calendar {
	c := &Calendar{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		c.dates[d.Format(dateLayout)] = struct{}{}
	}
	return c
}

// ParseCalendar creates a calendar from dates in "2006-01-02" form.
func ParseCalendar(dates []string) (*Calendar, error) {
	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid calendar date %q: %w", d, err)
		}
		parsed = append(parsed, t)
	}
	return NewCalendar(parsed), nil
}

// Len returns the number of dates in the calendar.
func (c *Calendar) Len() int {
	return len(c.dates)
}

// Contains reports whether the instant falls on a holiday date.
func (c *Calendar) Contains(t time.Time) bool {
	_, ok := c.dates[t.Format(dateLayout)]
	return ok
}

// Apply returns a copy of the series with the holiday column stamped from
// the calendar. The flag is a pure function of the date, so Apply is
// idempotent and safe to rerun after gap filling.
func (c *Calendar) Apply(s *Series) *Series {
	out := s.Copy()
	for i, ts := range out.Timestamps {
		if c.Contains(ts) {
			out.Holiday[i] = 1
		} else {
			out.Holiday[i] = 0
		}
	}
	return out
}
