package constraint

import (
	"fmt"
	"sort"
	"time"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

// TeamPairKey names an unordered pair of teams by index, the Go
// rendition of original_source/ScheduleOptimizer.py's frozenset({a, b})
// dict keys.
type TeamPairKey struct{ A, B int }

func pairKey(a, b int) TeamPairKey {
	if a > b {
		a, b = b, a
	}
	return TeamPairKey{A: a, B: b}
}

// Builder allocates the model's decision variables and adds named,
// idempotent-by-tag constraints/objectives over them. Each
// tag may be added at most once; adding a tag a second time, or adding
// two mutually-exclusive tags, fails with InconsistentState.
type Builder struct {
	backend Backend

	numGames int
	numTeams int

	// x[g][t] is "team t plays game g".
	x [][]BoolVar
	// u[g] is "game g is in use" (some team pair is assigned to it).
	u []BoolVar
	// m[pair] is the number of times a team pair is scheduled together.
	m map[TeamPairKey]IntVar
	// v[s] is the count of in-use games at distinct start instant s,
	// keyed by that instant's UnixNano.
	v        map[int64]IntVar
	startAt  []time.Time // startAt[g] is game g's start instant
	startKey []int64     // startKey[g] is startAt[g].UnixNano(), b.v's key

	tags map[string]bool

	objective Expr

	overlaps func(g1, g2 int) bool // true if games g1 and g2 may not share a team
	sameDate func(g1, g2 int) bool // true if games g1 and g2 fall on the same date
}

// claimObjective marks an objective tag as added, failing
// InconsistentState if it was already added. Objectives are additive
// (unlike constraints they have no mutual exclusions beyond their own
// idempotence), so claimObjective takes no conflicts parameter.
func (b *Builder) claimObjective(tag string) error {
	return b.claimTag(tag)
}

// Solve finalizes the weighted objective and runs the backend's solve,
// mirroring original_source/ScheduleOptimizer.py:solve() (set the
// objective once, validate, solve, check status).
func (b *Builder) Solve(cb SolutionCallback, opts SolveOptions) (*Solution, error) {
	b.backend.SetMaximize(b.objective)
	return b.backend.SolveWithCallback(cb, opts)
}

// Assignment reads off, from a solved Solution, the set of team indices
// assigned to each game, i.e. sol.Bool(X[g][t]) == true.
func (b *Builder) Assignment(sol *Solution) [][]int {
	out := make([][]int, b.numGames)
	for g := 0; g < b.numGames; g++ {
		for t := 0; t < b.numTeams; t++ {
			if sol.Bool(b.x[g][t]) {
				out[g] = append(out[g], t)
			}
		}
	}
	return out
}

// NewBuilder allocates the per-game, per-team boolean matrix X[g][t] and
// the per-game "in use" indicator U[g] against backend, plus the
// per-distinct-start-instant count V_s (and its compile-time capacity
// cap_s, the number of games sharing that instant). overlaps and
// sameDate classify pairs of game indices for NoDoubleScheduling and
// NoDoubleHeaders respectively; startOf returns a game's start instant,
// used both to key V_s and, by IceMakers, to find each date's earliest
// draw.
func NewBuilder(backend Backend, numGames, numTeams int, overlaps, sameDate func(g1, g2 int) bool, startOf func(g int) time.Time) *Builder {
	b := &Builder{
		backend:  backend,
		numGames: numGames,
		numTeams: numTeams,
		m:        make(map[TeamPairKey]IntVar),
		v:        make(map[int64]IntVar),
		startAt:  make([]time.Time, numGames),
		startKey: make([]int64, numGames),
		tags:     make(map[string]bool),
		overlaps: overlaps,
		sameDate: sameDate,
	}

	b.x = make([][]BoolVar, numGames)
	for g := 0; g < numGames; g++ {
		b.x[g] = make([]BoolVar, numTeams)
		for t := 0; t < numTeams; t++ {
			b.x[g][t] = backend.AddBool(fmt.Sprintf("x_%d_%d", g, t))
		}
	}

	b.u = make([]BoolVar, numGames)
	for g := 0; g < numGames; g++ {
		b.u[g] = backend.AddBool(fmt.Sprintf("u_%d", g))
		// U[g] is defined by TeamsPerGame below; until that constraint
		// is added it is an unconstrained free boolean, which is fine
		// since every schedule this package builds adds TeamsPerGame first.
	}

	startCaps := make(map[int64]int)
	for g := 0; g < numGames; g++ {
		at := startOf(g)
		b.startAt[g] = at
		key := at.UnixNano()
		b.startKey[g] = key
		startCaps[key]++
	}
	keys := make([]int64, 0, len(startCaps))
	for key := range startCaps {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, key := range keys {
		b.v[key] = backend.AddIntInRange(0, int64(startCaps[key]), fmt.Sprintf("v_%d", key))
		b.backend.DefineInt(b.v[key], Sum(b.startGameBools(key)...))
	}

	return b
}

func (b *Builder) startGameBools(key int64) []VarRef {
	var out []VarRef
	for g, k := range b.startKey {
		if k == key {
			out = append(out, b.u[g])
		}
	}
	return out
}

// firstDrawOfDay reports, for each game, whether its start is the
// earliest among all games sharing its calendar date — "the first draw
// of the day" ice-maker teams are exempted from.
func (b *Builder) firstDrawOfDay() []bool {
	minByDate := make(map[string]time.Time)
	dateKey := func(t time.Time) string { return t.Format("2006-01-02") }
	for g := 0; g < b.numGames; g++ {
		k := dateKey(b.startAt[g])
		if cur, ok := minByDate[k]; !ok || b.startAt[g].Before(cur) {
			minByDate[k] = b.startAt[g]
		}
	}
	first := make([]bool, b.numGames)
	for g := 0; g < b.numGames; g++ {
		first[g] = b.startAt[g].Equal(minByDate[dateKey(b.startAt[g])])
	}
	return first
}

// claimTag fails InconsistentState if tag itself or any of the given
// conflicting tags is already present, then marks tag as added.
func (b *Builder) claimTag(tag string, conflicts ...string) error {
	if b.tags[tag] {
		return drawerr.Newf(drawerr.InconsistentState, "constraint %q already added", tag)
	}
	for _, c := range conflicts {
		if b.tags[c] {
			return drawerr.Newf(drawerr.InconsistentState, "constraint %q conflicts with already-added %q", tag, c)
		}
	}
	b.tags[tag] = true
	return nil
}

// teamBools returns X[g][t] for every game g, for a fixed team t.
func (b *Builder) teamBools(t int) []VarRef {
	out := make([]VarRef, b.numGames)
	for g := 0; g < b.numGames; g++ {
		out[g] = b.x[g][t]
	}
	return out
}

// TeamsPerGame asserts exactly k teams play every in-use game, and 0
// play every not-in-use game: Σ_t X[g][t] == k if U[g],
// else == 0. Also defines U[g] := (that sum == k), via the standard
// reification the constraint model depends on throughout.
func (b *Builder) TeamsPerGame(k int) error {
	if err := b.claimTag("TeamsPerGame"); err != nil {
		return err
	}
	for g := 0; g < b.numGames; g++ {
		sum := Sum(boolRefs(b.x[g])...)
		// Σ X[g][t] - k == 0, enforced when U[g].
		b.backend.AddLinearEq(sum.AddConstant(-int64(k)), b.u[g].Lit())
		// Σ X[g][t] == 0, enforced when not U[g].
		b.backend.AddLinearEq(sum, b.u[g].Not())
	}
	return nil
}

func boolRefs(vars []BoolVar) []VarRef {
	out := make([]VarRef, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

// NoDoubleScheduling asserts no team plays two games that overlap in
// time: for every team t and every pair of overlapping
// games (g1, g2), X[g1][t] + X[g2][t] <= 1.
func (b *Builder) NoDoubleScheduling() error {
	if err := b.claimTag("NoDoubleScheduling"); err != nil {
		return err
	}
	for g1 := 0; g1 < b.numGames; g1++ {
		for g2 := g1 + 1; g2 < b.numGames; g2++ {
			if !b.overlaps(g1, g2) {
				continue
			}
			for t := 0; t < b.numTeams; t++ {
				expr := NewExpr().AddTerm(b.x[g1][t], 1).AddTerm(b.x[g2][t], 1).AddConstant(-1)
				b.backend.AddLinearLe(expr)
			}
		}
	}
	return nil
}

// gamesVar returns (creating if needed) the IntVar counting team t's
// total games, defined as Σ_g X[g][t].
func (b *Builder) gamesVar(cache map[int]IntVar, t int) IntVar {
	if v, ok := cache[t]; ok {
		return v
	}
	v := b.backend.AddIntInRange(0, int64(b.numGames), fmt.Sprintf("games_%d", t))
	b.backend.DefineInt(v, Sum(b.teamBools(t)...))
	cache[t] = v
	return v
}

// EqualGames asserts every team plays the same number of games, either
// Exact (all teams' totals pairwise equal) or Almost (pairwise totals
// differ by at most one). These two modes are mutually
// exclusive with each other and with MinimumRequiredGames. Exact
// combines with ExactNumGames (the default policy adds both); Almost
// is mutually exclusive with ExactNumGames.
func (b *Builder) EqualGames(exact bool) error {
	tag, conflicts := "EqualGames:Exact", []string{"EqualGames:Almost", "MinimumRequiredGames"}
	if !exact {
		tag, conflicts = "EqualGames:Almost", []string{"EqualGames:Exact", "ExactNumGames", "MinimumRequiredGames"}
	}
	if err := b.claimTag(tag, conflicts...); err != nil {
		return err
	}
	cache := make(map[int]IntVar)
	bound := int64(0)
	if !exact {
		bound = 1
	}
	for t1 := 0; t1 < b.numTeams; t1++ {
		for t2 := t1 + 1; t2 < b.numTeams; t2++ {
			g1 := b.gamesVar(cache, t1)
			g2 := b.gamesVar(cache, t2)
			diff := NewExpr().AddTerm(g1, 1).AddTerm(g2, -1)
			b.backend.AddLinearLe(diff.AddConstant(-bound))
			b.backend.AddLinearGe(diff.AddConstant(bound))
		}
	}
	return nil
}

// RoundRobin asserts every pairing meets every other within one game of
// every other pairing: for every unordered pair {a,b},
// M[{a,b}] counts games in which both a and b's X indicator is true via
// a per-game helper boolean Y_g^{a,b} (AND of X[g][a] and X[g][b]
// through the standard linearization), and every two pairs' M values
// differ by at most one.
func (b *Builder) RoundRobin() error {
	if err := b.claimTag("RoundRobin"); err != nil {
		return err
	}
	for a := 0; a < b.numTeams; a++ {
		for bt := a + 1; bt < b.numTeams; bt++ {
			helpers := make([]BoolVar, b.numGames)
			for g := 0; g < b.numGames; g++ {
				y := b.backend.AddBool(fmt.Sprintf("y_%d_%d_%d", g, a, bt))
				b.addBooleanAnd(y, []BoolVar{b.x[g][a], b.x[g][bt]})
				helpers[g] = y
			}
			key := pairKey(a, bt)
			mv := b.backend.AddIntInRange(0, int64(b.numGames), fmt.Sprintf("m_%d_%d", a, bt))
			b.backend.DefineInt(mv, Sum(boolRefs(helpers)...))
			b.m[key] = mv
		}
	}
	keys := make([]TeamPairKey, 0, len(b.m))
	for k := range b.m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			diff := NewExpr().AddTerm(b.m[keys[i]], 1).AddTerm(b.m[keys[j]], -1)
			b.backend.AddLinearLe(diff.AddConstant(-1))
			b.backend.AddLinearGe(diff.AddConstant(1))
		}
	}
	return nil
}

// addBooleanAnd asserts target == AND(factors) via the standard
// linearization, grounded on original_source/ScheduleOptimizer.py's use
// of AddMultiplicationEquality for the same Y_g^{a,b} helper, re-derived
// here from the Backend's plain linear primitives since a dedicated
// product primitive isn't part of the interface.
func (b *Builder) addBooleanAnd(target BoolVar, factors []BoolVar) {
	for _, f := range factors {
		// target - f <= 0
		b.backend.AddLinearLe(NewExpr().AddTerm(target, 1).AddTerm(f, -1))
	}
	// target - Σfactors + (n-1) >= 0
	expr := NewExpr().AddTerm(target, 1).AddConstant(int64(len(factors) - 1))
	for _, f := range factors {
		expr = expr.AddTerm(f, -1)
	}
	b.backend.AddLinearGe(expr)
}

// ExactNumGames pins every team's total to exactly n. It combines with
// EqualGames(exact) and is mutually exclusive with EqualGames(almost)
// and MinimumRequiredGames.
func (b *Builder) ExactNumGames(n int) error {
	if err := b.claimTag("ExactNumGames", "EqualGames:Almost", "MinimumRequiredGames"); err != nil {
		return err
	}
	cache := make(map[int]IntVar)
	for t := 0; t < b.numTeams; t++ {
		gv := b.gamesVar(cache, t)
		b.backend.AddLinearEq(NewExpr().AddTerm(gv, 1).AddConstant(-int64(n)))
	}
	return nil
}

// MinimumRequiredGames asserts every team plays at least n games,
// mutually exclusive with EqualGames/ExactNumGames (the "exact
// vs. maximize" branch: this op leaves slack for MaximizeNumGames to
// fill rather than pinning an exact total).
func (b *Builder) MinimumRequiredGames(n int) error {
	if err := b.claimTag("MinimumRequiredGames", "EqualGames:Exact", "EqualGames:Almost", "ExactNumGames"); err != nil {
		return err
	}
	cache := make(map[int]IntVar)
	for t := 0; t < b.numTeams; t++ {
		gv := b.gamesVar(cache, t)
		b.backend.AddLinearGe(NewExpr().AddTerm(gv, 1).AddConstant(-int64(n)))
	}
	return nil
}

// NoDoubleHeaders asserts each team plays at most one game per calendar
// date: for every team t and every date-sharing game pair,
// X[g1][t] + X[g2][t] <= 1.
func (b *Builder) NoDoubleHeaders() error {
	if err := b.claimTag("NoDoubleHeaders"); err != nil {
		return err
	}
	for g1 := 0; g1 < b.numGames; g1++ {
		for g2 := g1 + 1; g2 < b.numGames; g2++ {
			if !b.sameDate(g1, g2) {
				continue
			}
			for t := 0; t < b.numTeams; t++ {
				expr := NewExpr().AddTerm(b.x[g1][t], 1).AddTerm(b.x[g2][t], 1).AddConstant(-1)
				b.backend.AddLinearLe(expr)
			}
		}
	}
	return nil
}

// Unavailability forbids specific (game, team) pairs outright
// (blackout-by-team): X[g][t] == 0 for each given pair.
func (b *Builder) Unavailability(pairs [][2]int) error {
	if err := b.claimTag("Unavailability"); err != nil {
		return err
	}
	for _, p := range pairs {
		g, t := p[0], p[1]
		b.backend.AddLinearEq(NewExpr().AddTerm(b.x[g][t], 1))
	}
	return nil
}

// MaximizeNumGames adds Σ_g U[g] to the weighted objective: more
// in-use games is better, the default objective absent an exact game
// count. Equivalent to Σ_{g,t} X[g][t] only while TeamsPerGame(k) holds
// (Σ_t X[g][t] = k·U[g] whenever TeamsPerGame has been added), which is
// always true for the schedules this package builds.
func (b *Builder) MaximizeNumGames(weight int64) error {
	if err := b.claimObjective("MaximizeNumGames"); err != nil {
		return err
	}
	b.objective = b.objective.Add(Sum(boolRefs(b.u)...).Scale(weight))
	return nil
}

// IceMakers adds, weighted, Σ X[g][t] over g ∈ F and t ∈ icemakers to
// the objective, where F is the set of games whose start is not the
// earliest on their calendar date (every draw but the first of the
// day), and additionally imposes the hard constraint that this sum is
// ≥ 1: at least one ice-maker team must be present at a non-first draw.
func (b *Builder) IceMakers(weight int64, icemakers []int) error {
	if err := b.claimObjective("IceMakers"); err != nil {
		return err
	}
	first := b.firstDrawOfDay()
	var terms []VarRef
	for g := 0; g < b.numGames; g++ {
		if first[g] {
			continue
		}
		for _, t := range icemakers {
			terms = append(terms, b.x[g][t])
		}
	}
	sum := Sum(terms...)
	b.backend.AddLinearGe(sum.AddConstant(-1))
	b.objective = b.objective.Add(sum.Scale(weight))
	return nil
}

// MinimizeDoubleHeaders adds a negatively-weighted penalty for teams
// playing twice on the same date to the objective: for each
// team and date-sharing game pair, a helper boolean that is 1 only when
// both games are assigned to that team, summed and subtracted from the
// objective at the given weight. This is the soft-constraint sibling of
// the hard NoDoubleHeaders constraint, usable on its own when double
// headers should be discouraged rather than forbidden outright.
func (b *Builder) MinimizeDoubleHeaders(weight int64) error {
	if err := b.claimObjective("MinimizeDoubleHeaders"); err != nil {
		return err
	}
	var penalties []BoolVar
	for g1 := 0; g1 < b.numGames; g1++ {
		for g2 := g1 + 1; g2 < b.numGames; g2++ {
			if !b.sameDate(g1, g2) {
				continue
			}
			for t := 0; t < b.numTeams; t++ {
				y := b.backend.AddBool(fmt.Sprintf("dh_%d_%d_%d", g1, g2, t))
				b.addBooleanAnd(y, []BoolVar{b.x[g1][t], b.x[g2][t]})
				penalties = append(penalties, y)
			}
		}
	}
	if len(penalties) == 0 {
		return nil
	}
	b.objective = b.objective.Add(Sum(boolRefs(penalties)...).Scale(-weight))
	return nil
}

// emptyFullDrawsWeight{Empty,Lonely,Full} are the default per-bucket
// multipliers applied before the caller's overall weight: encouraging
// empty and full draws, strongly discouraging a lonely (single-game) one.
const (
	emptyFullDrawsWeightEmpty  = 2
	emptyFullDrawsWeightLonely = -3
	emptyFullDrawsWeightFull   = 1
)

// EmptyFullDraws adds a weighted preference toward starts that are
// either completely empty or completely full over ones that host
// exactly one game: for each distinct start s with capacity cap_s,
// reified indicators empty_s := (V_s == 0), lonely_s := (V_s == 1), and
// full_s := (V_s == cap_s) contribute to the objective at their own
// default sub-weight (2, -3, 1 respectively), scaled by weight.
func (b *Builder) EmptyFullDraws(weight int64) error {
	if err := b.claimObjective("EmptyFullDraws"); err != nil {
		return err
	}
	keys := make([]int64, 0, len(b.v))
	for key := range b.v {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, key := range keys {
		vv := b.v[key]
		capacity := int64(len(b.startGameBools(key)))
		empty := b.reifyIntEquals(vv, 0, capacity, fmt.Sprintf("empty_%d", key))
		lonely := b.reifyIntEquals(vv, 1, capacity, fmt.Sprintf("lonely_%d", key))
		full := b.reifyIntEquals(vv, capacity, capacity, fmt.Sprintf("full_%d", key))
		b.objective = b.objective.
			AddTerm(empty, emptyFullDrawsWeightEmpty*weight).
			AddTerm(lonely, emptyFullDrawsWeightLonely*weight).
			AddTerm(full, emptyFullDrawsWeightFull*weight)
	}
	return nil
}

// reifyIntEquals returns a fresh boolean that is true if and only if
// the int variable v equals k, given v's domain is [0, domainMax]. Built
// from the same linear primitives as everything else in this package:
// if the target is true, v == k is asserted directly; if false, a pair
// of disjoint auxiliary booleans forces v below or above k, and at
// least one of (target, below, above) must hold.
func (b *Builder) reifyIntEquals(v IntVar, k, domainMax int64, label string) BoolVar {
	target := b.backend.AddBool(label)
	if k > 0 {
		below := b.backend.AddBool(label + "_below")
		b.backend.AddLinearLe(NewExpr().AddTerm(v, 1).AddConstant(-(k - 1)), below.Lit())
		if k < domainMax {
			above := b.backend.AddBool(label + "_above")
			b.backend.AddLinearGe(NewExpr().AddTerm(v, 1).AddConstant(-(k + 1)), above.Lit())
			b.backend.AddBoolOr(target.Lit(), below.Lit(), above.Lit())
		} else {
			b.backend.AddBoolOr(target.Lit(), below.Lit())
		}
	} else if k < domainMax {
		above := b.backend.AddBool(label + "_above")
		b.backend.AddLinearGe(NewExpr().AddTerm(v, 1).AddConstant(-(k + 1)), above.Lit())
		b.backend.AddBoolOr(target.Lit(), above.Lit())
	}
	b.backend.AddLinearEq(NewExpr().AddTerm(v, 1).AddConstant(-k), target.Lit())
	return target
}


