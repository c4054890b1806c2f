package biqbin

import "math"

// node.go defines the branch-and-bound node and terminal-solution types,
// generalizing jjhbw-GoMILP's subProblem/solution split (now-deleted
// subproblem.go) from an LP relaxation's fixed-variable map to the SDP
// solver's {-1,0,+1} fixation vector.

// FixState is the fixation of one vertex in a BabNode: unfixed, or forced
// to one side of the cut.
type FixState int8

const (
	Free FixState = 0
	Neg  FixState = -1
	Pos  FixState = 1
)

// BabNode is one node of the distributed branch-and-bound tree. Xfixed
// mirrors jjhbw-GoMILP's per-node variable map but over {-1,0,+1} instead
// of an LP bound pair; FracSol/Bound are filled in once the node has been
// bounded.
type BabNode struct {
	Xfixed []FixState
	Level  int

	Bound   float64   // upper bound inherited from the parent or freshly computed
	FracSol []float64 // vertex-0 row of the reduced X per vertex, set once bounded
}

// BabSolution is a terminal incumbent: a full {-1,+1} assignment and its
// cut value.
type BabSolution struct {
	X     []int8
	Value float64
}

// rootNode builds the level-0 node. Vertex 0 is fixed to +1 as the
// reference that removes Max-Cut's global sign symmetry (x and -x cut the
// same edges); every other vertex starts free. This matches problem.go's
// reduce, which always keeps vertex 0 as the row carrying the relaxed
// linear value of every other (possibly fixed) vertex.
func rootNode(n int) *BabNode {
	xfixed := make([]FixState, n)
	if n > 0 {
		xfixed[0] = Pos
	}
	return &BabNode{
		Xfixed: xfixed,
		Level:  0,
		Bound:  math.Inf(1),
	}
}

// copyFixed returns an independent copy of a node's fixation vector, the
// same defensive copy jjhbw-GoMILP's getChild makes of its parent's bound
// map before mutating it for a child.
func copyFixed(src []FixState) []FixState {
	out := make([]FixState, len(src))
	copy(out, src)
	return out
}

// numFree reports how many vertices are still undetermined.
func (n *BabNode) numFree() int {
	free := 0
	for _, v := range n.Xfixed {
		if v == Free {
			free++
		}
	}
	return free
}

// isLeaf reports whether every vertex has been fixed, i.e. the node is a
// candidate integral solution rather than a relaxation to bound further.
func (n *BabNode) isLeaf() bool {
	return n.numFree() == 0
}

// assignment extracts the {-1,+1} vector once isLeaf is true; Free entries
// default to +1, which never occurs when isLeaf holds.
func (n *BabNode) assignment() []int8 {
	out := make([]int8, len(n.Xfixed))
	for i, v := range n.Xfixed {
		if v == Neg {
			out[i] = -1
		} else {
			out[i] = 1
		}
	}
	return out
}
