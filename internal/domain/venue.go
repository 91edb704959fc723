package domain

import (
	"strconv"
	"strings"
	"sync"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

// VenueKind tags the concrete variant of a Venue, replacing the original
// implementation's Venue/Sheet inheritance hierarchy with a tagged union.
type VenueKind int

const (
	// KindOpaque is a bare, opaque-string-tagged venue.
	KindOpaque VenueKind = iota
	// KindSheet is a numbered curling sheet.
	KindSheet
)

var sheetUseLetters struct {
	once sync.Once
	set  bool
}

// SetSheetUseLetters toggles whether Sheet.String() renders as a
// capital letter (A, B, C, ...) instead of a plain integer. It is a
// process-wide, set-once switch: the first call wins. It must be
// called before any Sheet is stringified.
func SetSheetUseLetters(useLetters bool) {
	sheetUseLetters.once.Do(func() {
		sheetUseLetters.set = useLetters
	})
}

func sheetUsesLetters() bool {
	return sheetUseLetters.set
}

// Venue is a tagged union over the venue variants the scheduler knows
// about. The zero value is not a valid Venue; use NewOpaqueVenue or
// NewSheet.
type Venue struct {
	kind   VenueKind
	opaque string
	sheet  int
}

// NewOpaqueVenue builds a Venue identified by an arbitrary string tag.
func NewOpaqueVenue(tag string) Venue {
	return Venue{kind: KindOpaque, opaque: tag}
}

// NewSheet builds a numbered Sheet venue, 1-indexed.
func NewSheet(n int) Venue {
	return Venue{kind: KindSheet, sheet: n}
}

// ParseSheet parses a Sheet identifier from either a numeric string or a
// single letter (A => 1, B => 2, ...), matching the original
// implementation's Sheet constructor (Venue.py) so schedule CSVs written
// with letters round-trip.
func ParseSheet(s string) (Venue, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Venue{}, drawerr.New(drawerr.InvalidInput, "empty sheet identifier")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return NewSheet(n), nil
	}
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return NewSheet(int(s[0]-'a') + 1), nil
	}
	return Venue{}, drawerr.Newf(drawerr.InvalidInput, "%q is not a valid Sheet identifier", s)
}

// ParseVenue parses a venue cell for the given variant name, as selected
// by a schedule CSV's fourth header cell.
func ParseVenue(variantName, cell string) (Venue, error) {
	switch variantName {
	case "Sheet":
		return ParseSheet(cell)
	case "Venue", "":
		return NewOpaqueVenue(cell), nil
	default:
		return NewOpaqueVenue(cell), nil
	}
}

// Kind returns the venue's concrete variant.
func (v Venue) Kind() VenueKind { return v.kind }

// VariantName returns the name used both for CSV header dispatch and
// display, e.g. "Venue" or "Sheet".
func (v Venue) VariantName() string {
	switch v.kind {
	case KindSheet:
		return "Sheet"
	default:
		return "Venue"
	}
}

// SheetNumber returns the underlying sheet number. It is only valid when
// Kind() == KindSheet.
func (v Venue) SheetNumber() int { return v.sheet }

func (v Venue) String() string {
	switch v.kind {
	case KindSheet:
		if sheetUsesLetters() {
			return string(rune('A' + v.sheet - 1))
		}
		return strconv.Itoa(v.sheet)
	default:
		return v.opaque
	}
}

// Equal reports whether two venues are the same variant with the same
// identifier. Cross-variant venues are never equal.
func (v Venue) Equal(other Venue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindSheet:
		return v.sheet == other.sheet
	default:
		return v.opaque == other.opaque
	}
}

// Compare provides the venue total order: identical variants order by
// identifier, cross-variant venues order by variant name.
func (v Venue) Compare(other Venue) int {
	if v.kind != other.kind {
		return strings.Compare(v.VariantName(), other.VariantName())
	}
	switch v.kind {
	case KindSheet:
		switch {
		case v.sheet < other.sheet:
			return -1
		case v.sheet > other.sheet:
			return 1
		default:
			return 0
		}
	default:
		return strings.Compare(v.opaque, other.opaque)
	}
}
