package domain

import (
	"strings"
	"time"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

// Weekday mirrors the ISO weekday convention used throughout this
// package: Monday == 1 ... Sunday == 7 (see ISOWeekdayOf), rather than
// Go's own Sunday == 0 time.Weekday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// aliases covers original_source/Weekday.py's abbreviation table,
// kept for CLI weekday ergonomics.
var aliases = map[string]Weekday{
	"monday": Monday, "mon": Monday,
	"tuesday": Tuesday, "tu": Tuesday, "tue": Tuesday, "tues": Tuesday,
	"wednesday": Wednesday, "wed": Wednesday,
	"thursday": Thursday, "th": Thursday, "thu": Thursday, "thur": Thursday, "thurs": Thursday,
	"friday": Friday, "fri": Friday,
	"saturday": Saturday, "sat": Saturday,
	"sunday": Sunday, "sun": Sunday,
}

func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return "InvalidWeekday"
}

// FromString parses a weekday label case-insensitively, accepting full
// names and the common abbreviations, with or without a trailing period.
func FromString(label string) (Weekday, error) {
	trimmed := strings.TrimSpace(label)
	trimmed = strings.TrimSuffix(trimmed, ".")
	lower := strings.ToLower(trimmed)
	if w, ok := aliases[lower]; ok {
		return w, nil
	}
	return 0, drawerr.Newf(drawerr.InvalidInput, "unknown weekday label %q", label)
}

// FromDate returns the ISO weekday of the given date.
func FromDate(d time.Time) Weekday {
	return Weekday(ISOWeekdayOf(d))
}

// ISOWeekdayOf adapts time.Weekday to the Monday=1..Sunday=7 convention
// used by Weekday, since time.Time has no such accessor itself.
func ISOWeekdayOf(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// NextOnOrAfter returns the first date >= d whose weekday is w, rather
// than the original's Weekday.Next arithmetic, which mixed 0-based and
// 1-based indexing and could be off by one.
func NextOnOrAfter(d time.Time, w Weekday) time.Time {
	current := ISOWeekdayOf(d)
	daysAhead := int(w) - current
	if daysAhead < 0 {
		daysAhead += 7
	}
	return d.AddDate(0, 0, daysAhead)
}
