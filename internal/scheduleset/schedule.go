// Package scheduleset holds the Schedule container: a
// sequence of games and a parallel sequence of team assignments, plus
// the derived analytics and structural invariants the rest of the
// pipeline depends on.
package scheduleset

import (
	"sort"

	deepcopy "github.com/tiendc/go-deepcopy"

	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/drawerr"
)

// maxTeamsForMatrix is the games_against_matrix ceiling: the matrix
// cell type is uint8, so more than 255 teams cannot be indexed.
const maxTeamsForMatrix = 255

// Schedule holds two parallel slices of equal length: Games[i] is a
// slot, Assignments[i] is the (possibly empty) set of teams playing it.
type Schedule struct {
	Games       []domain.Game
	Assignments [][]domain.Team
}

// New builds an empty-assignment Schedule over the given games.
func New(games []domain.Game) *Schedule {
	return &Schedule{
		Games:       games,
		Assignments: make([][]domain.Team, len(games)),
	}
}

// NewWithAssignments builds a Schedule from parallel games/assignments
// slices, as produced by reading a schedule CSV. Fails InvalidInput if
// assignments is non-empty and its length differs from games; an empty
// assignments slice yields one empty assignment per game.
func NewWithAssignments(games []domain.Game, assignments [][]domain.Team) (*Schedule, error) {
	if len(assignments) > 0 && len(assignments) != len(games) {
		return nil, drawerr.New(drawerr.InvalidInput, "games and assignments length mismatch")
	}
	if len(assignments) == 0 {
		assignments = make([][]domain.Team, len(games))
	}
	return &Schedule{Games: games, Assignments: assignments}, nil
}

// StartTimes returns the set of distinct game start instants.
func (s *Schedule) StartTimes() map[string]struct{} {
	out := make(map[string]struct{})
	for _, g := range s.Games {
		out[g.Start().Format("2006-01-02T15:04:05")] = struct{}{}
	}
	return out
}

// Venues returns the set of non-nil venues appearing in the schedule.
func (s *Schedule) Venues() []domain.Venue {
	seen := make(map[string]domain.Venue)
	for _, g := range s.Games {
		if g.Venue == nil {
			continue
		}
		seen[g.Venue.VariantName()+"|"+g.Venue.String()] = *g.Venue
	}
	out := make([]domain.Venue, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// VenueVariant returns the single concrete venue variant name in play.
// Fails InconsistentState if multiple variants are present, NotAvailable
// if none are.
func (s *Schedule) VenueVariant() (string, error) {
	variants := make(map[string]struct{})
	for _, g := range s.Games {
		if g.Venue != nil {
			variants[g.Venue.VariantName()] = struct{}{}
		}
	}
	if len(variants) == 0 {
		return "", drawerr.New(drawerr.NotAvailable, "no venues are assigned")
	}
	if len(variants) > 1 {
		return "", drawerr.New(drawerr.InconsistentState, "venues are not all the same variant")
	}
	for v := range variants {
		return v, nil
	}
	panic("unreachable")
}

// TeamsAssigned reports whether any assignment is non-empty.
func (s *Schedule) TeamsAssigned() bool {
	for _, a := range s.Assignments {
		if len(a) > 0 {
			return true
		}
	}
	return false
}

// Teams returns the set of all teams appearing in any assignment.
func (s *Schedule) Teams() []domain.Team {
	seen := make(map[string]domain.Team)
	for _, a := range s.Assignments {
		for _, t := range a {
			seen[t.Name] = t
		}
	}
	out := make([]domain.Team, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	return domain.SortTeams(out)
}

// TeamsPerGame returns the common cardinality of non-empty assignments.
// Fails InconsistentState if cardinalities differ.
func (s *Schedule) TeamsPerGame() (int, error) {
	seen := make(map[int]struct{})
	for _, a := range s.Assignments {
		if len(a) != 0 {
			seen[len(a)] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 0, drawerr.New(drawerr.NotAvailable, "no teams are assigned to any game")
	}
	if len(seen) != 1 {
		return 0, drawerr.New(drawerr.InconsistentState, "uneven number of teams assigned per game")
	}
	for k := range seen {
		return k, nil
	}
	panic("unreachable")
}

// Matrix is a games-against count matrix of arbitrary dimensionality
// (one axis per team-per-game slot), cells are uint8.
type Matrix struct {
	Teams []domain.Team // axis labels, in index order
	Dims  []int
	Data  []uint8
}

func newMatrix(teams []domain.Team, k int) *Matrix {
	dims := make([]int, k)
	size := 1
	for i := range dims {
		dims[i] = len(teams)
		size *= len(teams)
	}
	return &Matrix{Teams: teams, Dims: dims, Data: make([]uint8, size)}
}

func (m *Matrix) index(idx []int) int {
	flat := 0
	for _, i := range idx {
		flat = flat*len(m.Teams) + i
	}
	return flat
}

// Get returns the cell for the given per-axis team indices.
func (m *Matrix) Get(idx ...int) uint8 { return m.Data[m.index(idx)] }

func (m *Matrix) increment(idx []int) { m.Data[m.index(idx)]++ }

// GamesAgainstMatrix returns the symmetric [T]^teams_per_game count
// matrix: for each game's assignment, every permutation of its team
// indices is incremented, with teams indexed by their sorted total
// order. Fails CapacityExceeded if there are more than 255 teams.
func (s *Schedule) GamesAgainstMatrix() (*Matrix, error) {
	teams := s.Teams()
	if len(teams) > maxTeamsForMatrix {
		return nil, drawerr.Newf(drawerr.CapacityExceeded, "%d teams exceeds the 255-team games_against limit", len(teams))
	}
	k, err := s.TeamsPerGame()
	if err != nil {
		// With no assignments yet, games_against is a zero-sized no-op
		// matrix rather than an error the caller must special-case.
		if drawerr.Is(err, drawerr.NotAvailable) {
			k = 0
		} else {
			return nil, err
		}
	}
	teamIdx := make(map[string]int, len(teams))
	for i, t := range teams {
		teamIdx[t.Name] = i
	}
	matrix := newMatrix(teams, k)
	if k == 0 {
		return matrix, nil
	}
	for _, assignment := range s.Assignments {
		if len(assignment) == 0 {
			continue
		}
		indices := make([]int, len(assignment))
		for i, t := range assignment {
			indices[i] = teamIdx[t.Name]
		}
		for _, perm := range permutations(indices) {
			matrix.increment(perm)
		}
	}
	return matrix, nil
}

func permutations(items []int) [][]int {
	if len(items) <= 1 {
		return [][]int{append([]int{}, items...)}
	}
	var out [][]int
	for i := range items {
		rest := make([]int, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{items[i]}, p...))
		}
	}
	return out
}

// GamesPerVenue returns, for each team name, a count of games played at
// each venue. Keyed by name rather than domain.Team itself since Team's
// Members slice makes it an invalid map key.
func (s *Schedule) GamesPerVenue() map[string]map[domain.Venue]int {
	venues := s.Venues()
	out := make(map[string]map[domain.Venue]int)
	for i, g := range s.Games {
		if g.Venue == nil {
			continue
		}
		for _, t := range s.Assignments[i] {
			if _, ok := out[t.Name]; !ok {
				out[t.Name] = make(map[domain.Venue]int, len(venues))
				for _, v := range venues {
					out[t.Name][v] = 0
				}
			}
			out[t.Name][*g.Venue]++
		}
	}
	return out
}

// PopulateVenues replaces Games with the Cartesian product Games × venues,
// preserving each original game's relative order within its (date, time)
// group by venue order. Only legal when no game already has a venue and
// no assignment is non-empty.
func (s *Schedule) PopulateVenues(venues []domain.Venue) error {
	for _, g := range s.Games {
		if g.Venue != nil {
			return drawerr.New(drawerr.InconsistentState, "venues are already assigned")
		}
	}
	for _, a := range s.Assignments {
		if len(a) != 0 {
			return drawerr.New(drawerr.InconsistentState, "teams are already assigned to games")
		}
	}

	var original []domain.Game
	if err := deepcopy.Copy(&original, s.Games); err != nil {
		return drawerr.Wrap(drawerr.InconsistentState, "copying games before populating venues", err)
	}

	expanded := make([]domain.Game, 0, len(original)*len(venues))
	for _, g := range original {
		for _, v := range venues {
			venue := v
			expanded = append(expanded, domain.Game{
				Date:      g.Date,
				StartTime: g.StartTime,
				Length:    g.Length,
				Venue:     &venue,
			})
		}
	}
	s.Games = expanded
	s.Assignments = make([][]domain.Team, len(expanded))
	return nil
}
