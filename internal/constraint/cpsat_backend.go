package constraint

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"

	"github.com/dbs4261/drawsched/internal/drawerr"
)

// CPSATBackend binds the Backend interface to the real Google OR-Tools
// CP-SAT engine (github.com/google/or-tools/ortools/sat/go/cpmodel),
// grounded directly on the two ortools-sat-samples reference programs
// (ranking_sample_sat.go, no_overlap_sample_sat.go): NewCpModelBuilder,
// NewBoolVar/NewIntVarFromDomain, AddEquality/AddLessOrEqual/
// AddGreaterOrEqual with OnlyEnforceIf, AddBoolOr, AddImplication,
// Maximize, and SolveCpModel. This is the backend the production CLI
// solve path (solverdriver) uses; BruteForceBackend is test-only.
type CPSATBackend struct {
	builder *cpmodel.Builder

	bools []cpmodel.BoolVar
	ints  []cpmodel.IntVar

	// one is a fixed-domain [1,1] IntVar used to fold a plain integer
	// constant into a LinearExpr via AddTerm(one, constant).
	one  cpmodel.IntVar
	zero cpmodel.IntVar

	objective cpmodel.LinearExpr
}

// NewCPSATBackend returns an empty CPSATBackend.
func NewCPSATBackend() *CPSATBackend {
	b := &CPSATBackend{builder: cpmodel.NewCpModelBuilder()}
	b.one = b.builder.NewIntVarFromDomain(cpmodel.NewDomain(1, 1))
	b.zero = b.builder.NewIntVarFromDomain(cpmodel.NewDomain(0, 0))
	return b
}

func (b *CPSATBackend) AddBool(label string) BoolVar {
	b.bools = append(b.bools, b.builder.NewBoolVar())
	return BoolVar{id: len(b.bools) - 1}
}

func (b *CPSATBackend) AddIntInRange(lo, hi int64, label string) IntVar {
	b.ints = append(b.ints, b.builder.NewIntVarFromDomain(cpmodel.NewDomain(lo, hi)))
	return IntVar{id: len(b.ints) - 1}
}

func (b *CPSATBackend) AddConstant(v int64) IntVar {
	b.ints = append(b.ints, b.builder.NewIntVarFromDomain(cpmodel.NewDomain(v, v)))
	return IntVar{id: len(b.ints) - 1}
}

func (b *CPSATBackend) toLinearExpr(e Expr) cpmodel.LinearExpr {
	le := cpmodel.NewLinearExpr()
	for _, t := range e.terms {
		switch t.ref.refKind() {
		case kindBool:
			le = le.AddTerm(b.bools[t.ref.refID()], t.coeff)
		case kindInt:
			le = le.AddTerm(b.ints[t.ref.refID()], t.coeff)
		}
	}
	if e.constant != 0 {
		le = le.AddTerm(b.one, e.constant)
	}
	return le
}

func (b *CPSATBackend) literal(l Literal) cpmodel.Literal {
	v := b.bools[l.Var.id]
	if l.Neg {
		return v.Not()
	}
	return v
}

func (b *CPSATBackend) literals(lits []Literal) []cpmodel.Literal {
	out := make([]cpmodel.Literal, len(lits))
	for i, l := range lits {
		out[i] = b.literal(l)
	}
	return out
}

func (b *CPSATBackend) DefineInt(target IntVar, expr Expr) {
	b.builder.AddEquality(b.ints[target.id], b.toLinearExpr(expr))
}

func (b *CPSATBackend) AddLinearEq(expr Expr, enforce ...Literal) {
	ct := b.builder.AddEquality(b.toLinearExpr(expr), b.zero)
	if len(enforce) > 0 {
		ct.OnlyEnforceIf(b.literals(enforce)...)
	}
}

func (b *CPSATBackend) AddLinearLe(expr Expr, enforce ...Literal) {
	ct := b.builder.AddLessOrEqual(b.toLinearExpr(expr), b.zero)
	if len(enforce) > 0 {
		ct.OnlyEnforceIf(b.literals(enforce)...)
	}
}

func (b *CPSATBackend) AddLinearGe(expr Expr, enforce ...Literal) {
	ct := b.builder.AddGreaterOrEqual(b.toLinearExpr(expr), b.zero)
	if len(enforce) > 0 {
		ct.OnlyEnforceIf(b.literals(enforce)...)
	}
}

func (b *CPSATBackend) AddBoolOr(lits ...Literal) {
	b.builder.AddBoolOr(b.literals(lits)...)
}

func (b *CPSATBackend) AddImplication(a, bb Literal) {
	b.builder.AddImplication(b.literal(a), b.literal(bb))
}

func (b *CPSATBackend) SetMaximize(expr Expr) {
	b.objective = b.toLinearExpr(expr)
	b.builder.Maximize(b.objective)
}

// SolveWithCallback builds the accumulated cpmodel.Builder model,
// configures CP-SAT search parameters from opts, and solves it,
// reporting each intermediate incumbent through cb via the solver's
// own solution callback (mirrors cp_model.CpSolver.SolutionCallback in
// original_source/ScheduleOptimizer.py, translated to the Go binding's
// response-based API).
func (b *CPSATBackend) SolveWithCallback(cb SolutionCallback, opts SolveOptions) (*Solution, error) {
	model, err := b.builder.Model()
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InconsistentState, "building CP-SAT model", err)
	}

	params := &sppb.SatParameters{}
	if opts.NumWorkers > 0 {
		n := int32(opts.NumWorkers)
		params.NumSearchWorkers = &n
	}
	if opts.Deadline > 0 {
		seconds := opts.Deadline.Seconds()
		params.MaxTimeInSeconds = &seconds
	}

	start := time.Now()
	count := 0
	response, err := cpmodel.SolveCpModelWithParameters(model, params, func(r *cmpb.CpSolverResponse) {
		count++
		if cb != nil {
			cb(count, b.toSolution(r, time.Since(start)))
		}
	})
	if err != nil {
		glog.Errorf("CP-SAT solve failed: %v", err)
		return nil, drawerr.Wrap(drawerr.InconsistentState, "solving CP-SAT model", err)
	}

	sol := b.toSolution(response, time.Since(start))
	if opts.Verbose {
		glog.Infof("CP-SAT finished: status=%s objective=%v wall=%s", sol.Status, sol.ObjectiveValue, sol.WallTime)
	}
	if sol.Status != StatusOptimal && sol.Status != StatusFeasible {
		return sol, drawerr.NoSolutionStatus(sol.Status.String(), sol.SolverInfo)
	}
	return sol, nil
}

func (b *CPSATBackend) toSolution(r *cmpb.CpSolverResponse, wall time.Duration) *Solution {
	boolValues := make(map[int]bool, len(b.bools))
	for i, v := range b.bools {
		boolValues[i] = cpmodel.SolutionBooleanValue(r, v)
	}
	intValues := make(map[int]int64, len(b.ints))
	for i, v := range b.ints {
		intValues[i] = cpmodel.SolutionIntegerValue(r, v)
	}
	return &Solution{
		Status:         fromCPSATStatus(r.GetStatus()),
		ObjectiveValue: r.GetObjectiveValue(),
		BestBound:      r.GetBestObjectiveBound(),
		WallTime:       wall,
		SolverInfo:     r.GetSolutionInfo(),
		boolValues:     boolValues,
		intValues:      intValues,
	}
}

func fromCPSATStatus(s cmpb.CpSolverStatus) Status {
	switch s {
	case cmpb.CpSolverStatus_OPTIMAL:
		return StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return StatusInfeasible
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return StatusModelInvalid
	default:
		return StatusUnknown
	}
}

// DeadlineFromContext converts a context deadline into a SolveOptions
// deadline duration, defaulting to 0 (no deadline) if ctx carries none.
func DeadlineFromContext(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	d := time.Until(deadline)
	if d < 0 {
		return 0
	}
	return d
}
