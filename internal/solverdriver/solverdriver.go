// Package solverdriver owns the backend's solve call, the
// intermediate-solution callback (counted, logged, and snapshotted),
// deadline propagation, and the final OPTIMAL/FEASIBLE-or-NoSolution
// verdict.
package solverdriver

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/dbs4261/drawsched/internal/constraint"
	"github.com/dbs4261/drawsched/internal/drawerr"
	"github.com/dbs4261/drawsched/internal/snapshot"
)

// Options configures a single Run call.
type Options struct {
	// NumWorkers, if 0, defaults to max(1, runtime.NumCPU()/2) per
	// the stated worker-count formula.
	NumWorkers int
	Verbose    bool
	Sink       snapshot.Sink // defaults to snapshot.NopSink{} if nil

	// TeamNames/GameLabels feed the snapshot's human-readable fields;
	// both are optional (an empty snapshot is still valid JSON).
	TeamNames  []string
	GameLabels []string
}

func defaultWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Result is the driver's final verdict: either a materialized
// assignment (OPTIMAL or FEASIBLE) or a NoSolution error.
type Result struct {
	Status         constraint.Status
	Assignment     [][]int
	ObjectiveValue float64
	BestBound      float64
	WallTime       time.Duration
	SolverInfo     string
}

// Run solves the model built by b, reporting every intermediate
// incumbent through opts.Sink and, if opts.Verbose, a single glog line
// per incumbent (the "one log write and one snapshot write per
// callback invocation" design note). ctx's deadline, if any, is
// propagated to the backend as a wall-clock solve deadline.
func Run(ctx context.Context, b *constraint.Builder, opts Options) (*Result, error) {
	sink := opts.Sink
	if sink == nil {
		sink = snapshot.NopSink{}
	}
	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = defaultWorkers()
	}

	var deadline time.Duration
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}

	var count int64
	callback := func(n int, sol *constraint.Solution) {
		seq := int(atomic.AddInt64(&count, 1))
		if opts.Verbose {
			glog.Infof("incumbent %d: status=%s objective=%v bound=%v wall=%s", seq, sol.Status, sol.ObjectiveValue, sol.BestBound, sol.WallTime)
		}
		if err := sink.Write(snapshot.Snapshot{
			Sequence:       seq,
			Teams:          opts.TeamNames,
			Games:          opts.GameLabels,
			Assignment:     b.Assignment(sol),
			ObjectiveValue: sol.ObjectiveValue,
			BestBound:      sol.BestBound,
			WallTime:       sol.WallTime.Seconds(),
			SolverInfo:     sol.SolverInfo,
			Timestamp:      time.Now(),
		}); err != nil {
			glog.Warningf("snapshot write failed: %v", err)
		}
	}

	sol, err := b.Solve(callback, constraint.SolveOptions{
		NumWorkers: numWorkers,
		Deadline:   deadline,
		Verbose:    opts.Verbose,
	})
	if err != nil {
		if drawerr.Is(err, drawerr.NoSolution) {
			return &Result{Status: sol.Status, WallTime: sol.WallTime, SolverInfo: sol.SolverInfo}, err
		}
		return nil, err
	}

	return &Result{
		Status:         sol.Status,
		Assignment:     b.Assignment(sol),
		ObjectiveValue: sol.ObjectiveValue,
		BestBound:      sol.BestBound,
		WallTime:       sol.WallTime,
		SolverInfo:     sol.SolverInfo,
	}, nil
}
