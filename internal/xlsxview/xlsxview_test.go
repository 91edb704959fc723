package xlsxview

import (
	"testing"
	"time"

	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/scheduleset"
)

func testSchedule() *scheduleset.Schedule {
	venueA := domain.NewSheet(1)
	venueB := domain.NewSheet(2)
	games := []domain.Game{
		{Date: time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC), StartTime: 12 * time.Hour, Venue: &venueA},
		{Date: time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC), StartTime: 12 * time.Hour, Venue: &venueB},
	}
	s := scheduleset.New(games)
	s.Assignments[0] = []domain.Team{domain.NewTeam("Thistles", nil), domain.NewTeam("Granite", nil)}
	s.Assignments[1] = []domain.Team{domain.NewTeam("Curlers", nil), domain.NewTeam("Rocks", nil)}
	return s
}

func TestGenerateHasMasterAndTeamSheets(t *testing.T) {
	s := testSchedule()

	f, err := Generate(s)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if idx, err := f.GetSheetIndex(masterSheetName); err != nil || idx < 0 {
		t.Fatalf("missing %q sheet: idx=%d err=%v", masterSheetName, idx, err)
	}

	for _, name := range []string{"Thistles", "Granite", "Curlers", "Rocks"} {
		if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
			t.Errorf("missing sheet for team %q", name)
		}
	}
}

func TestGenerateMasterSheetRows(t *testing.T) {
	s := testSchedule()

	f, err := Generate(s)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	got, err := f.GetCellValue(masterSheetName, "A2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if got != "2026-04-25" {
		t.Errorf("A2 = %q, want 2026-04-25", got)
	}

	team0, _ := f.GetCellValue(masterSheetName, "D2")
	if team0 != "Thistles" {
		t.Errorf("D2 = %q, want Thistles", team0)
	}
}

func TestGenerateTeamSheetListsOpponent(t *testing.T) {
	s := testSchedule()

	f, err := Generate(s)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	opponent, err := f.GetCellValue("Thistles", "D2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if opponent != "Granite" {
		t.Errorf("opponent cell = %q, want Granite", opponent)
	}
}

func TestColLetter(t *testing.T) {
	cases := map[int]string{1: "A", 2: "B", 26: "Z", 27: "AA", 52: "AZ"}
	for col, want := range cases {
		if got := colLetter(col); got != want {
			t.Errorf("colLetter(%d) = %q, want %q", col, got, want)
		}
	}
}
