package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekday is a three-letter English weekday code as stored in Alarm.Days.
type Weekday string

// Weekday codes in time.Weekday order.
const (
	Sunday    Weekday = "Sun"
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
)

// ErrUnknownWeekday is returned by ParseWeekday for unrecognized codes.
var ErrUnknownWeekday = errors.New("unknown weekday")

// weekdays is indexed by time.Weekday.
//
//nolint:gochecknoglobals // Read-only lookup table.
var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// AllWeekdays returns every code, Sunday first.
func AllWeekdays() []Weekday {
	return append([]Weekday(nil), weekdays[:]...)
}

// WeekdayOf returns the code of t's weekday in t's own location.
// Callers convert t to the device time zone first.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// Valid reports whether w is one of the seven codes.
func (w Weekday) Valid() bool {
	for _, d := range weekdays {
		if d == w {
			return true
		}
	}

	return false
}

// ParseWeekday accepts a code in any letter case, e.g. "mon" or "MON".
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range weekdays {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}
