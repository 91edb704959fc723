package domain

import (
	"testing"
	"time"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func hour(h int) time.Duration { return time.Duration(h) * time.Hour }

func TestGameOverlapsSharedEndpoint(t *testing.T) {
	length := hour(1)
	a := Game{Date: mustDate("2026-01-05"), StartTime: hour(9), Length: &length}
	b := Game{Date: mustDate("2026-01-05"), StartTime: hour(10), Length: &length}

	if !a.Overlaps(b) {
		t.Errorf("touching endpoints (a ends 10:00, b starts 10:00) should count as overlap")
	}
	if !b.Overlaps(a) {
		t.Errorf("Overlaps should be symmetric")
	}
}

func TestGameOverlapsDisjoint(t *testing.T) {
	length := hour(1)
	a := Game{Date: mustDate("2026-01-05"), StartTime: hour(9), Length: &length}
	b := Game{Date: mustDate("2026-01-05"), StartTime: hour(11), Length: &length}

	if a.Overlaps(b) {
		t.Errorf("games separated by a full hour gap should not overlap")
	}
}

func TestGameOverlapsNoLength(t *testing.T) {
	a := Game{Date: mustDate("2026-01-05"), StartTime: hour(9)}
	b := Game{Date: mustDate("2026-01-05"), StartTime: hour(9)}
	if a.Overlaps(b) {
		t.Errorf("a game with no length cannot be said to overlap")
	}
}

func TestGameSameDay(t *testing.T) {
	length := hour(2)
	a := Game{Date: mustDate("2026-01-05"), StartTime: hour(23), Length: &length}
	b := Game{Date: mustDate("2026-01-06"), StartTime: hour(0)}

	if !a.SameDay(b) {
		t.Errorf("a ends 01:00 on 2026-01-06, same as b's start date")
	}
}

func TestGameCompareOrdersByDateThenTimeThenLength(t *testing.T) {
	short := hour(1)
	long := hour(2)
	games := []Game{
		{Date: mustDate("2026-01-06"), StartTime: hour(9)},
		{Date: mustDate("2026-01-05"), StartTime: hour(9), Length: &long},
		{Date: mustDate("2026-01-05"), StartTime: hour(9), Length: &short},
		{Date: mustDate("2026-01-05"), StartTime: hour(8)},
	}
	if games[3].Compare(games[2]) >= 0 {
		t.Errorf("08:00 game should sort before the 09:00 games")
	}
	if games[2].Compare(games[1]) >= 0 {
		t.Errorf("shorter length should sort before longer length at the same start")
	}
	if games[1].Compare(games[0]) >= 0 {
		t.Errorf("earlier date should sort before later date")
	}
}

func TestGameCSVFieldRoundTrip(t *testing.T) {
	length := 90 * time.Minute
	sheet := NewSheet(3)
	g := Game{Date: mustDate("2026-02-01"), StartTime: hour(19), Length: &length, Venue: &sheet}

	fields := g.ToCSVFields()
	got, err := GameFromCSVFields(fields, "Sheet")
	if err != nil {
		t.Fatalf("GameFromCSVFields: %v", err)
	}
	if !got.Date.Equal(g.Date) || got.StartTime != g.StartTime {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, g)
	}
	if got.Length == nil || *got.Length != length {
		t.Errorf("length mismatch after round trip: %v", got.Length)
	}
	if got.Venue == nil || !got.Venue.Equal(sheet) {
		t.Errorf("venue mismatch after round trip: %v", got.Venue)
	}
}

func TestGameFromCSVFieldsTooFewCells(t *testing.T) {
	_, err := GameFromCSVFields([]string{"2026-01-01"}, "Sheet")
	if !drawerr.Is(err, drawerr.InvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestParseDurationAcceptsHMForms(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1:30:00", 90 * time.Minute},
		{"2:00", 2 * time.Hour},
		{"0:15:30", 15*time.Minute + 30*time.Second},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("19:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	if got != 19*time.Hour+30*time.Minute {
		t.Errorf("ParseTimeOfDay(19:30) = %v", got)
	}

	if _, err := ParseTimeOfDay("19"); !drawerr.Is(err, drawerr.InvalidInput) {
		t.Fatalf("ParseTimeOfDay(19) err = %v, want InvalidInput", err)
	}
}
