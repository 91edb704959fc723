package scheduleset

import (
	"context"
	"time"

	"github.com/dbs4261/drawsched/internal/constraint"
	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/drawerr"
	"github.com/dbs4261/drawsched/internal/solverdriver"
)

// TeamsPerGame is the number of teams the constraint model assigns to
// each in-use game; the optimizer only ever targets pairwise games
// (Schedule.TeamsPerGame itself stays polymorphic for CSV round-tripping
// of schedules produced some other way).
const TeamsPerGame = 2

// AssignOptions configures a single Assign call. Backend defaults to a
// real constraint.CPSATBackend if nil; tests substitute
// constraint.NewBruteForceBackend() here instead.
type AssignOptions struct {
	Backend          constraint.Backend
	RequiredNumGames *int
	Driver           solverdriver.Options
}

// Assign builds the constraint model over s.Games and teams, applies the
// default policy (the "Default policy used by Schedule.assign":
// NoDoubleScheduling, TeamsPerGame, EqualGames(exact), RoundRobin, then
// either ExactNumGames(required) or the MaximizeNumGames objective,
// then NoDoubleHeaders), solves it, and stores the resulting assignment
// into s.Assignments. s must have no existing assignments.
func (s *Schedule) Assign(ctx context.Context, teams []domain.Team, opts AssignOptions) error {
	if len(s.Games) == 0 {
		return drawerr.New(drawerr.InvalidInput, "no games to assign teams to")
	}
	if s.TeamsAssigned() {
		return drawerr.New(drawerr.InconsistentState, "teams are already assigned to games")
	}

	sorted := domain.SortTeams(teams)
	backend := opts.Backend
	if backend == nil {
		backend = constraint.NewCPSATBackend()
	}

	overlaps := func(g1, g2 int) bool { return s.Games[g1].Overlaps(s.Games[g2]) }
	sameDate := func(g1, g2 int) bool { return s.Games[g1].SameDay(s.Games[g2]) }
	startOf := func(g int) time.Time { return s.Games[g].Start() }

	b := constraint.NewBuilder(backend, len(s.Games), len(sorted), overlaps, sameDate, startOf)

	if err := b.NoDoubleScheduling(); err != nil {
		return err
	}
	if err := b.TeamsPerGame(TeamsPerGame); err != nil {
		return err
	}
	if err := b.EqualGames(true); err != nil {
		return err
	}
	if err := b.RoundRobin(); err != nil {
		return err
	}
	if opts.RequiredNumGames != nil {
		if err := b.ExactNumGames(*opts.RequiredNumGames); err != nil {
			return err
		}
	} else {
		if err := b.MaximizeNumGames(1); err != nil {
			return err
		}
	}
	if err := b.NoDoubleHeaders(); err != nil {
		return err
	}

	driverOpts := opts.Driver
	if driverOpts.TeamNames == nil {
		names := make([]string, len(sorted))
		for i, t := range sorted {
			names[i] = t.Name
		}
		driverOpts.TeamNames = names
	}
	if driverOpts.GameLabels == nil {
		labels := make([]string, len(s.Games))
		for i, g := range s.Games {
			labels[i] = g.String()
		}
		driverOpts.GameLabels = labels
	}

	result, err := solverdriver.Run(ctx, b, driverOpts)
	if err != nil {
		return err
	}

	assignments := make([][]domain.Team, len(s.Games))
	for g, idxs := range result.Assignment {
		for _, idx := range idxs {
			assignments[g] = append(assignments[g], sorted[idx])
		}
	}
	s.Assignments = assignments
	return nil
}
