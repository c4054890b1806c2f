package biqbin

// NMAX is the compile-time cap on solution payload arrays carried across
// the wire protocol (message.go). Mirrors the reference implementation's
// global_var.h NMAX constant.
const NMAX = 1024

// MaxBundle is the hard cap on bundle size (K_max).
const MaxBundle = 400

// BranchHeuristic selects how the fractional branching variable is chosen
// from a node's fracsol. Named the way jjhbw-GoMILP names its own
// BranchHeuristic enum (branching.go), generalized from LP relaxation
// values to SDP fracsol values.
type BranchHeuristic int

const (
	// BranchMostFractional picks the unfixed index whose fracsol (in
	// [-1,1]) is closest to 0, i.e. furthest from +-1.
	BranchMostFractional BranchHeuristic = iota
	// BranchLeastFractional picks the unfixed index whose fracsol is
	// closest to +-1.
	BranchLeastFractional
)

// Config is the solver's parameter record, given as a fluent builder the
// way jjhbw-GoMILP/api.go's Problem is: NewConfig seeds every
// documented default and the With* setters override the handful of knobs
// that are commonly adjusted per run.
type Config struct {
	InitBundleIter int
	MaxBundleIter  int

	TriagIter int
	PentIter  int
	HeptIter  int

	MaxOuterIter int
	ExtraIter    int

	ViolatedTriIneq float64

	TriIneqCap   int
	PentIneqCap  int
	HeptIneqCap  int
	AdjustTriIneq bool

	PentTrials  int
	HeptTrials  int
	IncludePent bool
	IncludeHept bool

	UseDiff bool

	// TimeLimit is in seconds; 0 disables the time limit.
	TimeLimit float64

	Branching BranchHeuristic

	// RootOnly stops after bounding the root node.
	RootOnly bool

	// Workers is the number of worker goroutines in the distributed B&B.
	// 1 runs the whole search on the calling goroutine.
	Workers int

	// Seed drives every deterministic RNG stream used for pentagonal and
	// heptagonal QAP simulated annealing and for the Goemans-Williamson
	// heuristic.
	Seed int64

	// Verbose is a logging switch; no code in this package reads it, so it
	// has no effect on output.
	Verbose bool
}

// NewConfig returns a Config with its documented defaults.
func NewConfig() Config {
	return Config{
		InitBundleIter:  3,
		MaxBundleIter:   15,
		TriagIter:       5,
		PentIter:        5,
		HeptIter:        5,
		MaxOuterIter:    20,
		ExtraIter:       10,
		ViolatedTriIneq: 1e-3,
		TriIneqCap:      5000,
		PentIneqCap:     5000,
		HeptIneqCap:     5000,
		AdjustTriIneq:   true,
		PentTrials:      60,
		HeptTrials:      50,
		IncludePent:     true,
		IncludeHept:     true,
		UseDiff:         true,
		TimeLimit:       0,
		Branching:       BranchMostFractional,
		RootOnly:        false,
		Workers:         1,
		Seed:            1,
	}
}

// WithTimeLimit sets the wall-clock budget in seconds; 0 disables it.
func (c Config) WithTimeLimit(seconds float64) Config {
	c.TimeLimit = seconds
	return c
}

// WithWorkers sets the number of worker goroutines.
func (c Config) WithWorkers(n int) Config {
	if n < 1 {
		panicInput("Workers must be >= 1")
	}
	c.Workers = n
	return c
}

// WithBranching selects the branching heuristic.
func (c Config) WithBranching(h BranchHeuristic) Config {
	c.Branching = h
	return c
}

// WithSeed sets the base RNG seed for separation and heuristic sampling.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = seed
	return c
}
