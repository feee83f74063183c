package timezone

import (
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is used for salons created without one and for any
// stored label the runtime cannot load.
const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); tz != "" && err == nil {
		return loc
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// NowIn is the wall clock of the salon; slot times are compared against it.
func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
