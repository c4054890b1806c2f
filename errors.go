package biqbin

import "errors"

// Sentinel errors for the conditions this package treats as recoverable.
// Everything else (numerical failure, capacity overflow, allocation
// failure, malformed input) is fatal and panics with a NumericalError,
// CapacityError, or InputError rather than being threaded through a
// return value, matching jjhbw-GoMILP's own convention of panicking on
// conditions a caller cannot sensibly recover from (sanityCheckDimensions,
// "variable pointer not found in Problem struct").
var (
	// ErrTimeExceeded names the time-limit condition. No function in this
	// package returns it: Solve reports a spent time limit through
	// SolveResult.StoppedByTimeLimit with a nil error.
	ErrTimeExceeded = errors.New("biqbin: time limit exceeded")

	// ErrNoFeasibleCut names the no-cut-found condition. No function in
	// this package returns it: an empty objective is rejected with an
	// InputError instead.
	ErrNoFeasibleCut = errors.New("biqbin: no feasible cut found")
)

// InputError reports a malformed objective matrix or parameter record.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "biqbin: invalid input: " + e.Reason }

// NumericalError reports a fatal numerical failure inside the interior
// point oracle or a linear-algebra kernel (non-SPD Cholesky, stalled
// duality gap). This is fatal within a node and aborts
// the whole run; the kernels boundNode calls panic with this type, and
// api.go's runWithPanicTranslation recovers a panic raised on Solve's own
// goroutine and returns it as Solve's error.
type NumericalError struct {
	Where  string
	Reason string
}

func (e *NumericalError) Error() string {
	return "biqbin: numerical failure in " + e.Where + ": " + e.Reason
}

// CapacityError reports a bundle or cut-list overflow: a tuning bug, not a
// recoverable condition.
type CapacityError struct {
	Resource string
	Limit    int
}

func (e *CapacityError) Error() string {
	return "biqbin: capacity exceeded for " + e.Resource
}

func panicInput(reason string) {
	panic(&InputError{Reason: reason})
}

func panicNumerical(where, reason string) {
	panic(&NumericalError{Where: where, Reason: reason})
}

func panicCapacity(resource string, limit int) {
	panic(&CapacityError{Resource: resource, Limit: limit})
}
