package domain

import "testing"

func TestParseSheetNumericAndLetter(t *testing.T) {
	n, err := ParseSheet("3")
	if err != nil {
		t.Fatalf("ParseSheet(3): %v", err)
	}
	if n.SheetNumber() != 3 {
		t.Errorf("ParseSheet(3).SheetNumber() = %d, want 3", n.SheetNumber())
	}

	letter, err := ParseSheet("b")
	if err != nil {
		t.Fatalf("ParseSheet(b): %v", err)
	}
	if letter.SheetNumber() != 2 {
		t.Errorf("ParseSheet(b).SheetNumber() = %d, want 2", letter.SheetNumber())
	}
}

func TestParseSheetInvalid(t *testing.T) {
	if _, err := ParseSheet(""); err == nil {
		t.Errorf("expected error for empty sheet identifier")
	}
	if _, err := ParseSheet("zz"); err == nil {
		t.Errorf("expected error for multi-letter sheet identifier")
	}
}

func TestParseVenueDispatchesByVariant(t *testing.T) {
	sheet, err := ParseVenue("Sheet", "2")
	if err != nil {
		t.Fatalf("ParseVenue(Sheet, 2): %v", err)
	}
	if sheet.Kind() != KindSheet || sheet.SheetNumber() != 2 {
		t.Errorf("got %+v, want Sheet 2", sheet)
	}

	opaque, err := ParseVenue("Venue", "Rink 1")
	if err != nil {
		t.Fatalf("ParseVenue(Venue, Rink 1): %v", err)
	}
	if opaque.Kind() != KindOpaque || opaque.String() != "Rink 1" {
		t.Errorf("got %+v, want opaque Rink 1", opaque)
	}
}

func TestVenueEqualCrossVariantNeverEqual(t *testing.T) {
	sheet := NewSheet(1)
	opaque := NewOpaqueVenue("1")
	if sheet.Equal(opaque) {
		t.Errorf("a Sheet and an opaque venue must never be equal even with matching labels")
	}
}

func TestVenueCompareOrdersByVariantThenIdentifier(t *testing.T) {
	s1 := NewSheet(1)
	s2 := NewSheet(2)
	if s1.Compare(s2) >= 0 {
		t.Errorf("Sheet 1 should sort before Sheet 2")
	}

	opaque := NewOpaqueVenue("Rink")
	if s1.Compare(opaque) == 0 {
		t.Errorf("cross-variant venues should never compare equal")
	}
}

func TestSheetStringDefaultsToNumeral(t *testing.T) {
	s := NewSheet(5)
	if got := s.String(); got != "5" {
		t.Errorf("Sheet(5).String() = %q, want \"5\"", got)
	}
}
