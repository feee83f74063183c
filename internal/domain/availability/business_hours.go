package availability

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == s {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// DayHours is one weekday's opening window. Times are ignored when IsOpen
// is false.
type DayHours struct {
	IsOpen    bool  `json:"isOpen"`
	OpenTime  Clock `json:"openTime"`
	CloseTime Clock `json:"closeTime"`
}

// BusinessHours holds exactly one entry per weekday, indexed by Weekday.
// The zero value is closed every day.
type BusinessHours [7]DayHours

func (b BusinessHours) For(d Weekday) DayHours {
	if !d.Valid() {
		return DayHours{}
	}
	return b[d]
}

func (b *BusinessHours) Set(d Weekday, h DayHours) {
	if d.Valid() {
		b[d] = h
	}
}

// Validate checks what the engine assumes: open days close after they open.
func (b BusinessHours) Validate() error {
	for i, h := range b {
		if !h.IsOpen {
			continue
		}
		if h.OpenTime >= h.CloseTime {
			return fmt.Errorf("%s: openTime must be before closeTime", Weekday(i))
		}
	}
	return nil
}

type dayHoursJSON struct {
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// MarshalJSON writes an object keyed by lowercase weekday name.
func (b BusinessHours) MarshalJSON() ([]byte, error) {
	out := make(map[string]dayHoursJSON, len(b))
	for i, h := range b {
		dj := dayHoursJSON{IsOpen: h.IsOpen}
		if h.IsOpen {
			dj.OpenTime = h.OpenTime.String()
			dj.CloseTime = h.CloseTime.String()
		}
		out[weekdayNames[i]] = dj
	}
	return json.Marshal(out)
}

// UnmarshalJSON rejects unknown weekday keys; missing keys stay closed.
func (b *BusinessHours) UnmarshalJSON(data []byte) error {
	var raw map[string]dayHoursJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out BusinessHours
	for key, dj := range raw {
		d, err := ParseWeekday(key)
		if err != nil {
			return err
		}
		if !dj.IsOpen {
			continue
		}

		open, err := ParseClock(dj.OpenTime)
		if err != nil {
			return fmt.Errorf("%s openTime: %w", d, err)
		}
		closing, err := ParseClock(dj.CloseTime)
		if err != nil {
			return fmt.Errorf("%s closeTime: %w", d, err)
		}
		out[d] = DayHours{IsOpen: true, OpenTime: open, CloseTime: closing}
	}

	*b = out
	return nil
}
