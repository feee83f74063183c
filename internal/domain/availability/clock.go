package availability

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// EndOfDay is the latest closing time accepted ("24:00").
	EndOfDay Clock = 24 * 60
)

// Clock is a naive wall-clock time expressed in minutes from midnight.
type Clock int

// ParseClock accepts "HH:MM" and "HH:MM:SS" (seconds are dropped).
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	h, ok := twoDigits(parts[0])
	if !ok {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, ok := twoDigits(parts[1])
	if !ok || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		if sec, ok := twoDigits(parts[2]); !ok || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}

	c := Clock(h*60 + m)
	if c > EndOfDay {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return c, nil
}

// twoDigits parses exactly two ASCII digits; signs and spaces are rejected.
func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// MustClock is for literals in tests and defaults.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date. The result carries no
// timezone meaning; it is only used for the weekday and as a key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ClockOf returns the wall-clock part of t.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}
