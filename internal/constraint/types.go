// Package constraint implements the constraint model builder: a
// declarative API that adds named, idempotent-by-tag constraints and
// weighted objectives to an internal CP-SAT style model over boolean
// team/game assignment variables.
//
// The model itself is expressed against a narrow Backend interface
// ("Solver as a collaborator") so more than one solving
// engine can sit underneath: CPSATBackend binds the real OR-Tools
// CP-SAT engine (github.com/google/or-tools/ortools/sat/go/cpmodel);
// BruteForceBackend is a small in-process backtracking solver used by
// this package's own tests so the constraint-composition logic can be
// checked without linking OR-Tools.
package constraint

import "time"

// BoolVar is an opaque handle to a 0/1 decision variable.
type BoolVar struct{ id int }

// IntVar is an opaque handle to a bounded integer decision variable.
type IntVar struct{ id int }

// VarRef is implemented by BoolVar and IntVar so both can appear as
// terms in a linear Expr.
type VarRef interface {
	refKind() varKind
	refID() int
}

type varKind int

const (
	kindBool varKind = iota
	kindInt
)

func (b BoolVar) refKind() varKind { return kindBool }
func (b BoolVar) refID() int       { return b.id }
func (v IntVar) refKind() varKind  { return kindInt }
func (v IntVar) refID() int        { return v.id }

// Literal is a BoolVar or its negation, the unit CP-SAT reasons about
// for OnlyEnforceIf/AddBoolOr/AddImplication.
type Literal struct {
	Var BoolVar
	Neg bool
}

// Lit returns the positive literal for v.
func (b BoolVar) Lit() Literal { return Literal{Var: b} }

// Not returns the negated literal for v, mirroring cpmodel.BoolVar.Not()
// in the OR-Tools Go binding.
func (b BoolVar) Not() Literal { return Literal{Var: b, Neg: true} }

// Not returns the logical negation of a literal.
func (l Literal) Not() Literal { return Literal{Var: l.Var, Neg: !l.Neg} }

type term struct {
	ref   VarRef
	coeff int64
}

// Expr is a linear combination of BoolVar/IntVar terms plus a constant,
// the narrow equivalent of cpmodel.LinearExpr. Expr is immutable; each
// builder method returns a new Expr so callers can compose freely.
type Expr struct {
	terms    []term
	constant int64
}

// NewExpr returns the empty (zero) expression.
func NewExpr() Expr { return Expr{} }

// Constant returns the constant expression c.
func Constant(c int64) Expr { return Expr{constant: c} }

// AddTerm returns a new Expr with coeff*v added, mirroring
// cpmodel.LinearExpr.AddTerm from the OR-Tools Go samples.
func (e Expr) AddTerm(v VarRef, coeff int64) Expr {
	out := Expr{terms: append(append([]term{}, e.terms...), term{ref: v, coeff: coeff}), constant: e.constant}
	return out
}

// Add returns the sum of two expressions.
func (e Expr) Add(other Expr) Expr {
	out := Expr{terms: append(append([]term{}, e.terms...), other.terms...), constant: e.constant + other.constant}
	return out
}

// AddConstant returns e shifted by c.
func (e Expr) AddConstant(c int64) Expr {
	return Expr{terms: e.terms, constant: e.constant + c}
}

// Sub returns e - other.
func (e Expr) Sub(other Expr) Expr {
	return e.Add(other.Scale(-1))
}

// Scale returns e scaled by k.
func (e Expr) Scale(k int64) Expr {
	terms := make([]term, len(e.terms))
	for i, t := range e.terms {
		terms[i] = term{ref: t.ref, coeff: t.coeff * k}
	}
	return Expr{terms: terms, constant: e.constant * k}
}

// Sum builds an Expr summing each var with coefficient 1.
func Sum(vars ...VarRef) Expr {
	e := NewExpr()
	for _, v := range vars {
		e = e.AddTerm(v, 1)
	}
	return e
}

// Status is the solver's terminal verdict, matching the CP-SAT status
// enum (OPTIMAL, FEASIBLE, INFEASIBLE, MODEL_INVALID, UNKNOWN).
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusModelInvalid
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusModelInvalid:
		return "MODEL_INVALID"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Solution is the backend's final or intermediate incumbent.
type Solution struct {
	Status         Status
	ObjectiveValue float64
	BestBound      float64
	WallTime       time.Duration
	// SolverInfo is a free-form solver-counters string, the Go analogue
	// of original_source/ScheduleOptimizer.py's solver.SolutionInfo().
	SolverInfo string

	boolValues map[int]bool
	intValues  map[int]int64
}

// Bool returns the solution's value for a BoolVar.
func (s *Solution) Bool(v BoolVar) bool { return s.boolValues[v.id] }

// Int returns the solution's value for an IntVar.
func (s *Solution) Int(v IntVar) int64 { return s.intValues[v.id] }

// SolveOptions configures a single Solve call.
type SolveOptions struct {
	NumWorkers int
	Deadline   time.Duration // 0 means no deadline
	Verbose    bool
}

// SolutionCallback receives each intermediate incumbent as the backend
// finds it. It may be invoked concurrently by backend-owned
// threads; implementations must treat their own state as shared.
type SolutionCallback func(count int, sol *Solution)

// Backend is the narrow interface the Builder compiles a model against.
// The constraint-adding methods return no constraint handle:
// enforcement literals are passed in up front via the variadic
// enforce parameter, following the
// Builder's usage pattern rather than OR-Tools's post-hoc
// .OnlyEnforceIf(...) chaining, so the interface stays backend-agnostic.
type Backend interface {
	AddBool(label string) BoolVar
	AddIntInRange(lo, hi int64, label string) IntVar
	AddConstant(v int64) IntVar

	// DefineInt asserts target == expr, unconditionally, the pattern
	// used everywhere a helper IntVar (M, V_s, per-team game counts) is introduced as a
	// sum of boolean decision variables. Grounded directly on
	// cpmodel's model.AddEquality(ranks[i], sumOfPredecessors) call in
	// the ranking_sample_sat.go OR-Tools example.
	DefineInt(target IntVar, expr Expr)

	// AddLinearEq asserts expr == 0, active only if every enforce
	// literal is true (unconditional when enforce is empty).
	AddLinearEq(expr Expr, enforce ...Literal)
	// AddLinearLe asserts expr <= 0 under the same enforcement rule.
	AddLinearLe(expr Expr, enforce ...Literal)
	// AddLinearGe asserts expr >= 0 under the same enforcement rule.
	AddLinearGe(expr Expr, enforce ...Literal)

	AddBoolOr(lits ...Literal)
	AddImplication(a, b Literal)

	SetMaximize(expr Expr)

	SolveWithCallback(cb SolutionCallback, opts SolveOptions) (*Solution, error)
}
