package config

import (
	"testing"
	"time"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

const testBlackoutYAML = `
blackout_dates:
  - date: "2026-05-10"
    reason: "Mother's Day"
  - start_date: "2026-12-24"
    end_date: "2026-12-26"
    reason: "Holiday break"
`

func TestLoadBlackoutFile(t *testing.T) {
	f, err := LoadFromBytes([]byte(testBlackoutYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.BlackoutDates) != 2 {
		t.Fatalf("blackout_dates = %d, want 2", len(f.BlackoutDates))
	}
	if f.BlackoutDates[0].Reason != "Mother's Day" {
		t.Errorf("reason = %q, want %q", f.BlackoutDates[0].Reason, "Mother's Day")
	}
	if f.BlackoutDates[0].Date.Time != mustDate("2026-05-10") {
		t.Errorf("date = %v, want 2026-05-10", f.BlackoutDates[0].Date.Time)
	}

	dates := f.AllDates()
	if len(dates) != 1+3 {
		t.Errorf("AllDates() = %d dates, want 4 (1 single + 3-day range)", len(dates))
	}
}

func TestLoadBlackoutFileValidation(t *testing.T) {
	t.Run("missing date and range", func(t *testing.T) {
		yaml := `
blackout_dates:
  - reason: "no date at all"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for entry with neither date nor range")
		}
	})

	t.Run("both date and range", func(t *testing.T) {
		yaml := `
blackout_dates:
  - date: "2026-05-10"
    start_date: "2026-05-01"
    end_date: "2026-05-05"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for entry with both date and range")
		}
	})

	t.Run("incomplete range", func(t *testing.T) {
		yaml := `
blackout_dates:
  - start_date: "2026-05-01"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for range missing end_date")
		}
	})

	t.Run("end before start", func(t *testing.T) {
		yaml := `
blackout_dates:
  - start_date: "2026-05-10"
    end_date: "2026-05-01"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for end_date before start_date")
		}
	})
}

func TestBlackoutEntryDatesSingle(t *testing.T) {
	e := BlackoutEntry{Date: &Date{Time: mustDate("2026-05-10")}}
	dates := e.Dates()
	if len(dates) != 1 || dates[0] != mustDate("2026-05-10") {
		t.Errorf("Dates() = %v, want [2026-05-10]", dates)
	}
}

func TestBlackoutEntryDatesRange(t *testing.T) {
	e := BlackoutEntry{
		StartDate: &Date{Time: mustDate("2026-12-24")},
		EndDate:   &Date{Time: mustDate("2026-12-26")},
	}
	dates := e.Dates()
	if len(dates) != 3 {
		t.Fatalf("Dates() = %d dates, want 3", len(dates))
	}
	if dates[0] != mustDate("2026-12-24") || dates[2] != mustDate("2026-12-26") {
		t.Errorf("Dates() = %v, want [12-24, 12-25, 12-26]", dates)
	}
}
