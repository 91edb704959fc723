package constraint

import (
	"testing"
	"time"
)

// noOverlaps/noSameDate treat every game as independent, the simplest
// fixture for exercising RoundRobin/TeamsPerGame without also pulling in
// NoDoubleScheduling's pairwise time-overlap bookkeeping.
func noOverlaps(g1, g2 int) bool { return false }
func noSameDate(g1, g2 int) bool { return false }

// distinctStart gives every game its own start instant an hour apart,
// so each game is the sole occupant of its own V_s (cap_s == 1).
func distinctStart(g int) time.Time {
	return time.Date(2026, 1, 5, 8+g, 0, 0, 0, time.UTC)
}

func TestBuilderRoundRobinThreeTeamsThreeGames(t *testing.T) {
	backend := NewBruteForceBackend()
	b := NewBuilder(backend, 3, 3, noOverlaps, noSameDate, distinctStart)

	if err := b.TeamsPerGame(2); err != nil {
		t.Fatalf("TeamsPerGame: %v", err)
	}
	if err := b.RoundRobin(); err != nil {
		t.Fatalf("RoundRobin: %v", err)
	}
	if err := b.MaximizeNumGames(1); err != nil {
		t.Fatalf("MaximizeNumGames: %v", err)
	}

	sol, err := b.Solve(nil, SolveOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("status = %v, want OPTIMAL", sol.Status)
	}

	assignment := b.Assignment(sol)
	seen := make(map[TeamPairKey]int)
	for g, teams := range assignment {
		if len(teams) != 2 {
			t.Fatalf("game %d has %d teams assigned, want 2", g, len(teams))
		}
		seen[pairKey(teams[0], teams[1])]++
	}
	for a := 0; a < 3; a++ {
		for bt := a + 1; bt < 3; bt++ {
			if seen[pairKey(a, bt)] != 1 {
				t.Errorf("pair (%d,%d) met %d times, want 1", a, bt, seen[pairKey(a, bt)])
			}
		}
	}
}

func TestBuilderNoDoubleSchedulingExcludesOverlappingPair(t *testing.T) {
	backend := NewBruteForceBackend()
	// Games 0 and 1 overlap; game 2 does not overlap either.
	overlaps := func(g1, g2 int) bool {
		return (g1 == 0 && g2 == 1) || (g1 == 1 && g2 == 0)
	}
	b := NewBuilder(backend, 3, 2, overlaps, noSameDate, distinctStart)

	if err := b.TeamsPerGame(1); err != nil {
		t.Fatalf("TeamsPerGame: %v", err)
	}
	if err := b.NoDoubleScheduling(); err != nil {
		t.Fatalf("NoDoubleScheduling: %v", err)
	}
	if err := b.MaximizeNumGames(1); err != nil {
		t.Fatalf("MaximizeNumGames: %v", err)
	}

	sol, err := b.Solve(nil, SolveOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	assignment := b.Assignment(sol)
	if len(assignment[0]) == 1 && len(assignment[1]) == 1 && assignment[0][0] == assignment[1][0] {
		t.Fatalf("same team assigned to overlapping games 0 and 1: %v", assignment)
	}
}

func TestEqualGamesExactRejectsConflictingTag(t *testing.T) {
	backend := NewBruteForceBackend()
	b := NewBuilder(backend, 2, 2, noOverlaps, noSameDate, distinctStart)

	if err := b.EqualGames(true); err != nil {
		t.Fatalf("EqualGames(true): %v", err)
	}
	if err := b.ExactNumGames(1); err != nil {
		t.Fatalf("ExactNumGames after EqualGames(true) should be accepted, got %v", err)
	}
	if err := b.EqualGames(false); err == nil {
		t.Fatalf("EqualGames(false) after EqualGames(true) should conflict, got nil error")
	}
}

func TestTeamsPerGameIdempotentByTag(t *testing.T) {
	backend := NewBruteForceBackend()
	b := NewBuilder(backend, 1, 2, noOverlaps, noSameDate, distinctStart)

	if err := b.TeamsPerGame(2); err != nil {
		t.Fatalf("first TeamsPerGame: %v", err)
	}
	if err := b.TeamsPerGame(2); err == nil {
		t.Fatalf("second TeamsPerGame should fail InconsistentState, got nil error")
	}
}

func TestUnavailabilityForcesBoolFalse(t *testing.T) {
	backend := NewBruteForceBackend()
	b := NewBuilder(backend, 1, 2, noOverlaps, noSameDate, distinctStart)

	if err := b.TeamsPerGame(1); err != nil {
		t.Fatalf("TeamsPerGame: %v", err)
	}
	if err := b.Unavailability([][2]int{{0, 0}}); err != nil {
		t.Fatalf("Unavailability: %v", err)
	}
	if err := b.MaximizeNumGames(1); err != nil {
		t.Fatalf("MaximizeNumGames: %v", err)
	}

	sol, err := b.Solve(nil, SolveOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assignment := b.Assignment(sol)
	for _, team := range assignment[0] {
		if team == 0 {
			t.Fatalf("team 0 assigned to game 0 despite Unavailability, assignment=%v", assignment)
		}
	}
}

// sameDayTwoStarts puts games 0 and 1 on the same calendar date, with
// game 1 starting an hour after game 0 (so game 0 is the first draw of
// the day and game 1 is not); game 2 falls on a different date entirely.
func sameDayTwoStarts(g int) time.Time {
	switch g {
	case 0:
		return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	case 1:
		return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	default:
		return time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC)
	}
}

func TestNewBuilderGroupsVByStartInstantNotVenue(t *testing.T) {
	backend := NewBruteForceBackend()
	// Games 0 and 1 share an instant; game 2 starts an hour later.
	sameInstant := func(g int) time.Time {
		if g == 2 {
			return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
		}
		return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	}
	b := NewBuilder(backend, 3, 2, noOverlaps, noSameDate, sameInstant)

	if len(b.v) != 2 {
		t.Fatalf("len(b.v) = %d, want 2 distinct start instants", len(b.v))
	}
	sharedKey := sameInstant(0).UnixNano()
	if cap := len(b.startGameBools(sharedKey)); cap != 2 {
		t.Fatalf("games sharing the 8:00 instant = %d, want 2", cap)
	}
}

func TestIceMakersTargetsNonFirstDrawOfDay(t *testing.T) {
	backend := NewBruteForceBackend()
	// Three teams, two games on the same date: game 0 at 8:00 (first
	// draw), game 1 at 10:00 (not first draw).
	b := NewBuilder(backend, 2, 3, noOverlaps, noSameDate, sameDayTwoStarts)

	if err := b.TeamsPerGame(1); err != nil {
		t.Fatalf("TeamsPerGame: %v", err)
	}
	if err := b.MaximizeNumGames(1); err != nil {
		t.Fatalf("MaximizeNumGames: %v", err)
	}
	// Team 0 is the sole ice-maker; it must appear in a non-first draw.
	if err := b.IceMakers(1, []int{0}); err != nil {
		t.Fatalf("IceMakers: %v", err)
	}

	sol, err := b.Solve(nil, SolveOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("status = %v, want OPTIMAL", sol.Status)
	}
	assignment := b.Assignment(sol)
	found := false
	for _, team := range assignment[1] {
		if team == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("ice-maker team 0 not assigned to the non-first draw (game 1): assignment=%v", assignment)
	}
}

func TestIceMakersInfeasibleWhenNoNonFirstDrawExists(t *testing.T) {
	backend := NewBruteForceBackend()
	// A single game is necessarily the first draw of its date, so F is
	// empty: the IceMakers hard constraint (sum >= 1 over an empty sum)
	// can never hold.
	b := NewBuilder(backend, 1, 2, noOverlaps, noSameDate, distinctStart)
	if err := b.TeamsPerGame(1); err != nil {
		t.Fatalf("TeamsPerGame: %v", err)
	}
	if err := b.IceMakers(1, []int{0}); err != nil {
		t.Fatalf("IceMakers: %v", err)
	}

	_, err := b.Solve(nil, SolveOptions{})
	if err == nil {
		t.Fatalf("Solve should fail when IceMakers' hard constraint has no feasible games, got nil error")
	}
}

func TestEmptyFullDrawsPrefersEmptyOverLonely(t *testing.T) {
	backend := NewBruteForceBackend()
	// A single game, single start instant, cap_s == 1: the objective
	// sees +1 (MaximizeNumGames), -3 (lonely) and +1 (full, since
	// cap_s == 1) if scheduled (net -1), versus 0 and +2 (empty) if left
	// unscheduled (net +2). The solver maximizes, so it must leave the
	// game empty.
	b := NewBuilder(backend, 1, 1, noOverlaps, noSameDate, distinctStart)
	if err := b.TeamsPerGame(1); err != nil {
		t.Fatalf("TeamsPerGame: %v", err)
	}
	if err := b.MaximizeNumGames(1); err != nil {
		t.Fatalf("MaximizeNumGames: %v", err)
	}
	if err := b.EmptyFullDraws(1); err != nil {
		t.Fatalf("EmptyFullDraws: %v", err)
	}

	sol, err := b.Solve(nil, SolveOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Fatalf("status = %v, want OPTIMAL", sol.Status)
	}
	assignment := b.Assignment(sol)
	if len(assignment[0]) != 0 {
		t.Fatalf("assignment[0] = %v, want empty (lonely penalty should outweigh scheduling it)", assignment[0])
	}
}
