// Package clock provides a minute-of-day wall-clock type.
//
// Attendance thresholds are compared at minute granularity. A Minute orders
// exactly like the zero-padded "HH:MM" strings it is parsed from, so
// comparisons against thresholds keep their string semantics.
package clock

import (
	"errors"
	"fmt"
	"time"
)

// MinutesPerDay is the number of minutes in a wall-clock day.
const MinutesPerDay = 24 * 60

// Layout is the only accepted textual form.
const Layout = "15:04"

var ErrInvalidClock = errors.New("time must be in HH:MM format")

// Minute is a wall-clock time expressed as minutes since midnight.
type Minute int

// Parse converts a zero-padded 24-hour "HH:MM" string.
func Parse(s string) (Minute, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Minute(h*60 + m), nil
}

// MustParse is Parse for constants. It panics on malformed input.
func MustParse(s string) Minute {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParsePtr parses an optional value. Nil and empty strings yield nil.
func ParsePtr(s *string) (*Minute, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	m, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// At returns the wall-clock minute of t in its own location. Seconds are truncated.
func At(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

// Add shifts m by n minutes, wrapping within a day.
func (m Minute) Add(n int) Minute {
	v := (int(m) + n) % MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	return Minute(v)
}

// Sub returns m - o in minutes.
func (m Minute) Sub(o Minute) int {
	return int(m) - int(o)
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Ptr returns a pointer to a copy of m.
func (m Minute) Ptr() *Minute {
	return &m
}

// Format renders an optional minute, returning nil when absent.
func Format(m *Minute) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
