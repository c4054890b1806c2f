// Package biqbin solves the unconstrained Max-Cut problem to provable
// optimality on dense weighted graphs by branch-and-bound, bounding every
// node with a semidefinite relaxation strengthened by triangle, pentagonal,
// and heptagonal cutting planes. A preprocessing reduction (bqp.go) also
// handles binary quadratic programs with linear equality constraints.
//
// The package does not read graph or BQP files, parse CLI flags, or format
// output: callers hand it a Laplacian-form objective matrix and a Config,
// and receive back a cut vector and its value. Distribution across workers
// is modeled with goroutines and channels rather than a specific process
// topology; a single call with Config.Workers == 1 runs entirely on the
// calling goroutine.
package biqbin
