package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

// Game is a scheduled slot: a date, a wall-clock start time, an optional
// duration, and an optional venue (original_source/Game.py).
type Game struct {
	Date      time.Time // calendar day, expected at midnight; Start adds StartTime to it unchanged
	StartTime time.Duration
	Length    *time.Duration
	Venue     *Venue
}

// Start returns date ⊕ start_time.
func (g Game) Start() time.Time {
	return g.Date.Add(g.StartTime)
}

// End returns start + length, or the zero time with ok=false if length
// is nil.
func (g Game) End() (t time.Time, ok bool) {
	if g.Length == nil {
		return time.Time{}, false
	}
	return g.Start().Add(*g.Length), true
}

// Overlaps reports whether the interval [start, end] of g intersects
// that of other, endpoints included: equal starts, equal ends, and a
// game starting exactly when the other ends all count as overlap.
// If either game has no length, Overlaps returns false.
func (g Game) Overlaps(other Game) bool {
	gs, gok := g.Start(), true
	ge, geok := g.End()
	os, ook := other.Start(), true
	oe, oeok := other.End()
	_ = gok
	_ = ook
	if !geok || !oeok {
		return false
	}
	if gs.Equal(os) || ge.Equal(oe) {
		return true
	}
	if gs.Before(os) {
		return !os.After(ge)
	}
	return !gs.After(oe)
}

// SameDay reports whether any of {g.Start date, g.End date} equals any
// of {other.Start date, other.End date}.
func (g Game) SameDay(other Game) bool {
	gEnd, gHasEnd := g.End()
	oEnd, oHasEnd := other.End()

	gDates := []time.Time{dateOnly(g.Start())}
	if gHasEnd {
		gDates = append(gDates, dateOnly(gEnd))
	}
	oDates := []time.Time{dateOnly(other.Start())}
	if oHasEnd {
		oDates = append(oDates, dateOnly(oEnd))
	}
	for _, a := range gDates {
		for _, b := range oDates {
			if a.Equal(b) {
				return true
			}
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Compare gives the total order: lexicographic on (date, start_time,
// length [nil sorts high], venue).
func (g Game) Compare(other Game) int {
	if !g.Date.Equal(other.Date) {
		if g.Date.Before(other.Date) {
			return -1
		}
		return 1
	}
	if g.StartTime != other.StartTime {
		if g.StartTime < other.StartTime {
			return -1
		}
		return 1
	}
	switch {
	case g.Length == nil && other.Length == nil:
		// fall through to venue comparison
	case other.Length == nil:
		return -1
	case g.Length == nil:
		return 1
	case *g.Length != *other.Length:
		if *g.Length < *other.Length {
			return -1
		}
		return 1
	}
	switch {
	case g.Venue == nil && other.Venue == nil:
		return 0
	case other.Venue == nil:
		return -1
	case g.Venue == nil:
		return 1
	default:
		return g.Venue.Compare(*other.Venue)
	}
}

func (g Game) String() string {
	var b strings.Builder
	b.WriteString(g.Start().String())
	if end, ok := g.End(); ok {
		b.WriteString(" to ")
		b.WriteString(end.String())
	}
	if g.Venue != nil {
		b.WriteString(" at ")
		b.WriteString(g.Venue.String())
	}
	return b.String()
}

// Header returns the fixed Game CSV header cells, with the fourth cell
// a placeholder for the venue variant name.
func Header(venueVariant string) []string {
	return []string{"Start Date", "Start Time", "Game Length", venueVariant}
}

// ToCSVFields renders the game's own four CSV cells (date, time, length,
// venue), not including any team assignment columns.
func (g Game) ToCSVFields() []string {
	lengthField := ""
	if g.Length != nil {
		lengthField = durationToHMS(*g.Length)
	}
	venueField := ""
	if g.Venue != nil {
		venueField = g.Venue.String()
	}
	return []string{
		g.Date.Format("2006-01-02"),
		durationToHMS(g.StartTime),
		lengthField,
		venueField,
	}
}

// GameFromCSVFields parses the first four cells of a schedule CSV row
// into a Game. variantName selects the Venue constructor for cell 4.
func GameFromCSVFields(fields []string, variantName string) (Game, error) {
	if len(fields) < 3 {
		return Game{}, drawerr.New(drawerr.InvalidInput, "schedule row has too few cells")
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(fields[0]))
	if err != nil {
		return Game{}, drawerr.Wrap(drawerr.InvalidInput, "parsing start date", err)
	}
	startTime, err := hmsToDuration(fields[1])
	if err != nil {
		return Game{}, drawerr.Wrap(drawerr.InvalidInput, "parsing start time", err)
	}
	var length *time.Duration
	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		l, err := hmsToDuration(fields[2])
		if err != nil {
			return Game{}, drawerr.Wrap(drawerr.InvalidInput, "parsing game length", err)
		}
		length = &l
	}
	var venue *Venue
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		v, err := ParseVenue(variantName, strings.TrimSpace(fields[3]))
		if err != nil {
			return Game{}, err
		}
		venue = &v
	}
	return Game{Date: date, StartTime: startTime, Length: length, Venue: venue}, nil
}

// durationToHMS renders a duration as H:M:S, matching
// original_source/utilities.py:timedelta_to_str.
func durationToHMS(d time.Duration) string {
	total := int64(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return strconv.FormatInt(hours, 10) + ":" + pad2(minutes) + ":" + pad2(seconds)
}

func pad2(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// hmsToDuration parses H[:M[:S]], matching utilities.py:timedelta_from_str.
// It also accepts a plain clock time (HH:MM) for a Game's start-time
// field, which is the same shape.
func hmsToDuration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, drawerr.Newf(drawerr.InvalidInput, "could not parse H[:M[:S]] from %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, drawerr.Wrap(drawerr.InvalidInput, "parsing hours", err)
	}
	minutes := 0
	if len(parts) >= 2 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, drawerr.Wrap(drawerr.InvalidInput, "parsing minutes", err)
		}
	}
	seconds := 0
	if len(parts) == 3 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, drawerr.Wrap(drawerr.InvalidInput, "parsing seconds", err)
		}
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

// ParseDuration parses H[:M[:S]] into a time.Duration, the form used by
// --draw-duration on the CLI and by a schedule CSV's Game Length column.
func ParseDuration(s string) (time.Duration, error) {
	return hmsToDuration(s)
}

// ParseTimeOfDay parses an "HH:MM" clock time into a Duration-since-
// midnight, the form used by --draw-time on the CLI.
func ParseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, drawerr.Newf(drawerr.InvalidInput, "expected HH:MM, got %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, drawerr.Wrap(drawerr.InvalidInput, "parsing hours", err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, drawerr.Wrap(drawerr.InvalidInput, "parsing minutes", err)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}
