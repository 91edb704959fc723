package constraint

import (
	"fmt"
	"time"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

// BruteForceBackend is a small in-process backtracking solver over
// boolean decision variables. It exists so this package's constraint-
// composition logic (builder.go) can be exercised in tests without
// linking the real OR-Tools CP-SAT engine. It is not wired into the
// CLI's production solve path (that is CPSATBackend); it is only ever
// constructed by this package's own tests and by anyone who
// deliberately wants an OR-Tools-free solve.
type BruteForceBackend struct {
	boolLabels []string
	intBounds  []struct{ lo, hi int64 }
	intDefs    map[int]Expr

	eqs  []enforcedExpr
	les  []enforcedExpr
	ges  []enforcedExpr
	ors  [][]Literal
	impl [][2]Literal

	objective    Expr
	hasObjective bool
}

type enforcedExpr struct {
	expr    Expr
	enforce []Literal
}

// NewBruteForceBackend returns an empty BruteForceBackend.
func NewBruteForceBackend() *BruteForceBackend {
	return &BruteForceBackend{intDefs: make(map[int]Expr)}
}

func (b *BruteForceBackend) AddBool(label string) BoolVar {
	b.boolLabels = append(b.boolLabels, label)
	return BoolVar{id: len(b.boolLabels) - 1}
}

func (b *BruteForceBackend) AddIntInRange(lo, hi int64, label string) IntVar {
	b.intBounds = append(b.intBounds, struct{ lo, hi int64 }{lo, hi})
	return IntVar{id: len(b.intBounds) - 1}
}

func (b *BruteForceBackend) AddConstant(v int64) IntVar {
	iv := b.AddIntInRange(v, v, fmt.Sprintf("const_%d", v))
	b.DefineInt(iv, Constant(v))
	return iv
}

func (b *BruteForceBackend) DefineInt(target IntVar, expr Expr) {
	b.intDefs[target.id] = expr
}

func (b *BruteForceBackend) AddLinearEq(expr Expr, enforce ...Literal) {
	b.eqs = append(b.eqs, enforcedExpr{expr: expr, enforce: enforce})
}

func (b *BruteForceBackend) AddLinearLe(expr Expr, enforce ...Literal) {
	b.les = append(b.les, enforcedExpr{expr: expr, enforce: enforce})
}

func (b *BruteForceBackend) AddLinearGe(expr Expr, enforce ...Literal) {
	b.ges = append(b.ges, enforcedExpr{expr: expr, enforce: enforce})
}

func (b *BruteForceBackend) AddBoolOr(lits ...Literal) {
	b.ors = append(b.ors, append([]Literal{}, lits...))
}

func (b *BruteForceBackend) AddImplication(a, bb Literal) {
	b.impl = append(b.impl, [2]Literal{a, bb})
}

func (b *BruteForceBackend) SetMaximize(expr Expr) {
	b.objective = expr
	b.hasObjective = true
}

// assignment holds a full leaf assignment of every bool and derived int.
type assignment struct {
	bools []bool
	ints  []int64
}

func (b *BruteForceBackend) resolveInts(bools []bool) []int64 {
	ints := make([]int64, len(b.intBounds))
	resolved := make([]bool, len(b.intBounds))
	// Fixed-point evaluation: int defs may reference other int defs.
	for pass := 0; pass < len(b.intBounds)+1; pass++ {
		progressed := false
		for id, expr := range b.intDefs {
			if resolved[id] {
				continue
			}
			if v, ok := b.tryEval(expr, bools, ints, resolved); ok {
				ints[id] = v
				resolved[id] = true
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return ints
}

func (b *BruteForceBackend) tryEval(e Expr, bools []bool, ints []int64, resolved []bool) (int64, bool) {
	total := e.constant
	for _, t := range e.terms {
		switch t.ref.refKind() {
		case kindBool:
			total += t.coeff * boolToInt(bools[t.ref.refID()])
		case kindInt:
			id := t.ref.refID()
			if !resolved[id] {
				return 0, false
			}
			total += t.coeff * ints[id]
		}
	}
	return total, true
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func (b *BruteForceBackend) eval(e Expr, bools []bool, ints []int64) int64 {
	total := e.constant
	for _, t := range e.terms {
		switch t.ref.refKind() {
		case kindBool:
			total += t.coeff * boolToInt(bools[t.ref.refID()])
		case kindInt:
			total += t.coeff * ints[t.ref.refID()]
		}
	}
	return total
}

func (b *BruteForceBackend) literalTrue(l Literal, bools []bool) bool {
	v := bools[l.Var.id]
	if l.Neg {
		return !v
	}
	return v
}

func (b *BruteForceBackend) enforced(lits []Literal, bools []bool) bool {
	for _, l := range lits {
		if !b.literalTrue(l, bools) {
			return false
		}
	}
	return true
}

func (b *BruteForceBackend) feasible(bools []bool) bool {
	ints := b.resolveInts(bools)
	for _, e := range b.eqs {
		if b.enforced(e.enforce, bools) && b.eval(e.expr, bools, ints) != 0 {
			return false
		}
	}
	for _, e := range b.les {
		if b.enforced(e.enforce, bools) && b.eval(e.expr, bools, ints) > 0 {
			return false
		}
	}
	for _, e := range b.ges {
		if b.enforced(e.enforce, bools) && b.eval(e.expr, bools, ints) < 0 {
			return false
		}
	}
	for _, or := range b.ors {
		any := false
		for _, l := range or {
			if b.literalTrue(l, bools) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	for _, im := range b.impl {
		if b.literalTrue(im[0], bools) && !b.literalTrue(im[1], bools) {
			return false
		}
	}
	return true
}

// SolveWithCallback performs an exhaustive backtracking search over all
// boolean variables, tracking the best feasible objective value found.
// It is intended for small models only (this package's own tests).
func (b *BruteForceBackend) SolveWithCallback(cb SolutionCallback, opts SolveOptions) (*Solution, error) {
	n := len(b.boolLabels)
	bools := make([]bool, n)

	var best *Solution
	var bestObjective float64
	found := 0

	var recurse func(i int) error
	recurse = func(i int) error {
		if i == n {
			if !b.feasible(bools) {
				return nil
			}
			ints := b.resolveInts(bools)
			objective := 0.0
			if b.hasObjective {
				objective = float64(b.eval(b.objective, bools, ints))
			}
			found++
			sol := b.snapshot(bools, ints, objective)
			if cb != nil {
				cb(found, sol)
			}
			if best == nil || objective > bestObjective {
				best = sol
				bestObjective = objective
			}
			return nil
		}
		for _, v := range []bool{false, true} {
			bools[i] = v
			if err := recurse(i + 1); err != nil {
				return err
			}
		}
		return nil
	}

	start := time.Now()
	if err := recurse(0); err != nil {
		return nil, err
	}

	if best == nil {
		sol := &Solution{Status: StatusInfeasible, WallTime: time.Since(start)}
		return sol, drawerr.NoSolutionStatus(sol.Status.String(), "exhaustive search found no feasible assignment")
	}
	best.Status = StatusOptimal
	best.WallTime = time.Since(start)
	return best, nil
}

func (b *BruteForceBackend) snapshot(bools []bool, ints []int64, objective float64) *Solution {
	boolValues := make(map[int]bool, len(bools))
	for i, v := range bools {
		boolValues[i] = v
	}
	intValues := make(map[int]int64, len(ints))
	for i, v := range ints {
		intValues[i] = v
	}
	return &Solution{
		ObjectiveValue: objective,
		BestBound:      objective,
		boolValues:     boolValues,
		intValues:      intValues,
	}
}
