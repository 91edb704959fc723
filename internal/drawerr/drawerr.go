// Package drawerr defines the error taxonomy shared by every layer of the
// scheduler: a small set of kinds (not types), each wrapping the
// underlying cause with fmt.Errorf("%w", ...) the way the rest of this
// codebase wraps errors.
package drawerr

import (
	"errors"
	"fmt"
)

// Kind is one of the taxonomy entries from the error-handling design.
type Kind int

const (
	// InvalidInput covers malformed CSV, unknown weekday labels, bad
	// time-delta formats, start_date > end_date, and missing required
	// CSV columns. User-visible.
	InvalidInput Kind = iota
	// InconsistentState covers API misuse: populating venues when some
	// already exist, requesting teams_per_game when cardinalities
	// differ, combining mutually exclusive constraints.
	InconsistentState
	// NotAvailable covers a derived property requested when its
	// preconditions are not met.
	NotAvailable
	// CapacityExceeded covers more than 255 teams for games_against.
	CapacityExceeded
	// NoSolution covers a solver status other than OPTIMAL or FEASIBLE.
	NoSolution
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InconsistentState:
		return "InconsistentState"
	case NotAvailable:
		return "NotAvailable"
	case CapacityExceeded:
		return "CapacityExceeded"
	case NoSolution:
		return "NoSolution"
	default:
		return "Unknown"
	}
}

// Error is a taxonomy-tagged error. SolverStatus is populated only for
// Kind == NoSolution, carrying the backend's status name and last known
// bound so callers can report why the model was infeasible.
type Error struct {
	Kind         Kind
	Msg          string
	SolverStatus string
	Err          error
}

func (e *Error) Error() string {
	if e.SolverStatus != "" {
		return fmt.Sprintf("%s: %s (solver status: %s)", e.Kind, e.Msg, e.SolverStatus)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a Kind-tagged error.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a Kind-tagged error with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a Kind-tagged error around an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// NoSolutionStatus builds a NoSolution error carrying the solver's
// status and, when known, a human-readable bound summary.
func NoSolutionStatus(status string, boundSummary string) error {
	return &Error{Kind: NoSolution, Msg: boundSummary, SolverStatus: status}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
