package biqbin

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// separation.go implements the prune/generate/merge pipeline for triangle
// inequalities and the random-sampling QAP-refinement pipeline for
// pentagonal and heptagonal inequalities.

// separationStats summarizes one separation pass for the bounding driver.
type separationStats struct {
	MaxViolation float64
	Added        int
	Removed      int
}

const pruneGammaThreshold = 1e-4

// pruneTriangles removes cuts whose dual multiplier has decayed to zero
// relevance or whose cached violation has fallen below the minimum
// worth keeping.
func pruneTriangles(p *Problem, minViolation float64) int {
	kept := p.Triangles[:0]
	removed := 0
	for _, t := range p.Triangles {
		if t.Y <= pruneGammaThreshold || t.Value < minViolation {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	p.Triangles = kept
	return removed
}

// triangleCandidate is a scored candidate produced during generation.
type triangleCandidate struct {
	t         TriangleInequality
	violation float64
}

// updateTriangleInequalities runs the full prune/generate/merge pipeline
// against the current primal X and returns the round's statistics.
func updateTriangleInequalities(p *Problem, X *mat.SymDense, cfg Config) separationStats {
	removed := pruneTriangles(p, cfg.ViolatedTriIneq)

	active := make(map[[4]int]bool, len(p.Triangles))
	for i := range p.Triangles {
		active[p.Triangles[i].key()] = true
	}

	candidates := make([]triangleCandidate, 0, cfg.TriIneqCap)
	maxViolation := 0.0
	n := p.n
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for typ := 1; typ <= 4; typ++ {
					t := newTriangle(i, j, k, typ)
					raw := t.evaluate(X)
					viol := raw - 1
					if viol > maxViolation {
						maxViolation = viol
					}
					if viol <= cfg.ViolatedTriIneq || active[t.key()] {
						continue
					}
					candidates = append(candidates, triangleCandidate{t: t, violation: viol})
				}
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].violation > candidates[b].violation
	})
	if len(candidates) > cfg.TriIneqCap {
		candidates = candidates[:cfg.TriIneqCap]
	}

	added := 0
	for _, c := range candidates {
		if added >= cfg.TriIneqCap {
			break
		}
		t := c.t
		t.Value = c.violation
		t.Y = 0
		p.Triangles = append(p.Triangles, t)
		added++
	}

	return separationStats{MaxViolation: maxViolation, Added: added, Removed: removed}
}

// pentagonCandidate and heptagonCandidate mirror triangleCandidate for the
// sampled separators.

type pentagonCandidate struct {
	p         PentagonalInequality
	violation float64
}

type heptagonCandidate struct {
	h         HeptagonalInequality
	violation float64
}

// bestPentagonForSubset scores every pentagonal type against a fixed
//5-subset and returns the best, then refines the permutation order with a
// short QAP-style simulated-annealing pass (swap two positions, keep if
// improved or with decaying acceptance probability).
func bestPentagonForSubset(X *mat.SymDense, subset []int, rng *rand.Rand) (PentagonalInequality, float64) {
	var perm [5]int
	copy(perm[:], subset)

	bestType, bestViol := 1, -1e300
	for typ := 1; typ <= 3; typ++ {
		cand := PentagonalInequality{Perm: perm, Type: typ}
		viol := cand.evaluate(X) - 1
		if viol > bestViol {
			bestViol = viol
			bestType = typ
		}
	}

	best := PentagonalInequality{Perm: perm, Type: bestType, Value: bestViol}
	annealPermutation(X, best.Perm[:], bestType, &bestViol, 5, rng, func(p []int, typ int) float64 {
		var c PentagonalInequality
		copy(c.Perm[:], p)
		c.Type = typ
		return c.evaluate(X) - 1
	})
	best.Value = bestViol
	return best, bestViol
}

func bestHeptagonForSubset(X *mat.SymDense, subset []int, rng *rand.Rand) (HeptagonalInequality, float64) {
	var perm [7]int
	copy(perm[:], subset)

	bestType, bestViol := 1, -1e300
	for typ := 1; typ <= 4; typ++ {
		cand := HeptagonalInequality{Perm: perm, Type: typ}
		viol := cand.evaluate(X) - 1
		if viol > bestViol {
			bestViol = viol
			bestType = typ
		}
	}

	best := HeptagonalInequality{Perm: perm, Type: bestType, Value: bestViol}
	annealPermutation(X, best.Perm[:], bestType, &bestViol, 7, rng, func(p []int, typ int) float64 {
		var c HeptagonalInequality
		copy(c.Perm[:], p)
		c.Type = typ
		return c.evaluate(X) - 1
	})
	best.Value = bestViol
	return best, bestViol
}

// annealPermutation performs a small fixed-budget simulated-annealing
// refinement of perm in place: propose a random transposition, accept
// immediately if it improves the violation, otherwise accept with
// probability exp(delta/temp) on a geometrically cooling schedule. This is
// a QAP-style local search over the permutation, not over the type, which
// is re-evaluated (score) by the caller against eval. On return perm holds
// the best permutation seen and *bestViol its violation.
func annealPermutation(X *mat.SymDense, perm []int, typ int, bestViol *float64, k int, rng *rand.Rand, eval func([]int, int) float64) {
	const rounds = 30
	temp := 1.0
	current := *bestViol
	bestPerm := append([]int(nil), perm...)
	for r := 0; r < rounds; r++ {
		a := rng.Intn(k)
		b := rng.Intn(k)
		if a == b {
			continue
		}
		perm[a], perm[b] = perm[b], perm[a]
		candidate := eval(perm, typ)
		delta := candidate - current
		if delta >= 0 || rng.Float64() < math.Exp(delta/temp) {
			current = candidate
			if current > *bestViol {
				*bestViol = current
				copy(bestPerm, perm)
			}
		} else {
			perm[a], perm[b] = perm[b], perm[a] // revert
		}
		temp *= 0.9
	}
	copy(perm, bestPerm)
}

// updatePentagonalInequalities samples cfg.PentTrials random 5-subsets,
// refines each, prunes the existing active set, and merges violated
// candidates up to cfg.PentIneqCap — the pentagonal analogue of
// updateTriangleInequalities.
func updatePentagonalInequalities(p *Problem, X *mat.SymDense, cfg Config, rng *rand.Rand) separationStats {
	removed := 0
	kept := p.Pentagons[:0]
	for _, c := range p.Pentagons {
		if c.Y <= pruneGammaThreshold || c.Value < cfg.ViolatedTriIneq {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	p.Pentagons = kept
	if p.n < 5 {
		return separationStats{Removed: removed}
	}

	scratch := make([]int, p.n)
	candidates := make([]pentagonCandidate, 0, cfg.PentTrials)
	maxViolation := 0.0
	for trial := 0; trial < cfg.PentTrials; trial++ {
		subset := randSubset(p.n, 5, rng, scratch)
		cand, viol := bestPentagonForSubset(X, subset, rng)
		if viol > maxViolation {
			maxViolation = viol
		}
		if viol > cfg.ViolatedTriIneq {
			candidates = append(candidates, pentagonCandidate{p: cand, violation: viol})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].violation > candidates[b].violation })
	added := 0
	for _, c := range candidates {
		if len(p.Pentagons) >= cfg.PentIneqCap {
			break
		}
		c.p.Y = 0
		p.Pentagons = append(p.Pentagons, c.p)
		added++
	}
	return separationStats{MaxViolation: maxViolation, Added: added, Removed: removed}
}

// updateHeptagonalInequalities is the heptagonal analogue.
func updateHeptagonalInequalities(p *Problem, X *mat.SymDense, cfg Config, rng *rand.Rand) separationStats {
	removed := 0
	kept := p.Heptagons[:0]
	for _, c := range p.Heptagons {
		if c.Y <= pruneGammaThreshold || c.Value < cfg.ViolatedTriIneq {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	p.Heptagons = kept
	if p.n < 7 {
		return separationStats{Removed: removed}
	}

	scratch := make([]int, p.n)
	candidates := make([]heptagonCandidate, 0, cfg.HeptTrials)
	maxViolation := 0.0
	for trial := 0; trial < cfg.HeptTrials; trial++ {
		subset := randSubset(p.n, 7, rng, scratch)
		cand, viol := bestHeptagonForSubset(X, subset, rng)
		if viol > maxViolation {
			maxViolation = viol
		}
		if viol > cfg.ViolatedTriIneq {
			candidates = append(candidates, heptagonCandidate{h: cand, violation: viol})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].violation > candidates[b].violation })
	added := 0
	for _, c := range candidates {
		if len(p.Heptagons) >= cfg.HeptIneqCap {
			break
		}
		c.h.Y = 0
		p.Heptagons = append(p.Heptagons, c.h)
		added++
	}
	return separationStats{MaxViolation: maxViolation, Added: added, Removed: removed}
}
