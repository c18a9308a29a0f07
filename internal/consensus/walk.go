// Package consensus implements tip selection and confirmation confidence:
// the biased random walk, walk-set generation, and the confidence
// predicate used to decide how far back a balance query trusts the graph.
package consensus

import (
	"math"
	"math/rand"

	"github.com/duskcoin/tangled/internal/dag"
)

// DefaultAlpha is the default bias strength for BiasedRandomWalk.
const DefaultAlpha = 5.0

// DefaultConfirmationThreshold is the recommended user-facing confirmation
// level, θ = 0.95.
const DefaultConfirmationThreshold = 0.95

// epsilon stands in for "the smallest positive real": a weight floor so
// that no child, however much heavier its siblings, ever has exactly zero
// probability of being chosen.
const epsilon = 1e-300

// BiasedRandomWalk descends from start toward a tip, at each hop weighting
// children by w(c) = max(exp(-alpha*(start.cumulativeWeight -
// c.cumulativeWeight)), epsilon) and sampling proportional to w. pStepBack
// is the probability of instead stepping to a random parent before
// continuing forward; 0 disables it, matching the default configuration.
//
// The walk reads only dag.Node's own children/parents locks and tolerates
// concurrent structural mutation: a child added between hops may simply be
// missed.
func BiasedRandomWalk(start *dag.Node, alpha, pStepBack float64, rng *rand.Rand) *dag.Node {
	cur := start
	for {
		if pStepBack > 0 && rng.Float64() < pStepBack {
			parents := cur.Parents()
			if len(parents) > 0 {
				cur = parents[rng.Intn(len(parents))]
				continue
			}
		}
		children := cur.Children()
		if len(children) == 0 {
			return cur
		}
		weights := make([]float64, len(children))
		total := 0.0
		for i, c := range children {
			w := math.Exp(-alpha * (cur.CumulativeWeight() - c.CumulativeWeight()))
			if w < epsilon {
				w = epsilon
			}
			weights[i] = w
			total += w
		}
		pick := rng.Float64() * total
		acc := 0.0
		chosen := children[len(children)-1]
		for i, w := range weights {
			acc += w
			if pick <= acc {
				chosen = children[i]
				break
			}
		}
		cur = chosen
	}
}

// WalkSetSize is the fixed width every walk-set is padded or repeated to.
const WalkSetSize = 100

// WalkSet builds the lookback frontier for n at distance delta: breadth-
// first over n's local frontier collecting nodes whose depth ==
// n.depth + delta; if the frontier reaches genesis without collecting
// enough, the set becomes {genesis}. The result is padded by repetition to
// exactly WalkSetSize entries.
func WalkSet(n *dag.Node, delta int) []*dag.Node {
	targetDepth := dag.Depth(n) + delta
	collected := []*dag.Node{}
	seen := map[*dag.Node]bool{}
	frontier := []*dag.Node{n}
	seen[n] = true
	reachedGenesis := false
	for len(frontier) > 0 {
		next := []*dag.Node{}
		for _, cur := range frontier {
			if cur.IsGenesis {
				reachedGenesis = true
			}
			if dag.Depth(cur) == targetDepth {
				collected = append(collected, cur)
				continue
			}
			for _, p := range cur.Parents() {
				if seen[p] {
					continue
				}
				seen[p] = true
				next = append(next, p)
			}
		}
		frontier = next
	}
	if len(collected) == 0 {
		if reachedGenesis {
			collected = []*dag.Node{genesisOf(n)}
		} else {
			collected = []*dag.Node{genesisOf(n)}
		}
	}
	out := make([]*dag.Node, WalkSetSize)
	for i := range out {
		out[i] = collected[i%len(collected)]
	}
	return out
}

func genesisOf(n *dag.Node) *dag.Node {
	cur := n
	for !cur.IsGenesis {
		parents := cur.Parents()
		if len(parents) == 0 {
			return cur
		}
		cur = parents[0]
	}
	return cur
}

// ConfirmationConfidence runs WalkSetSize independent biased random walks
// from n's walk-set and returns the fraction whose terminal tip is a
// (possibly indirect) approver of n, i.e. n.isChild(tip).
func ConfirmationConfidence(n *dag.Node, alpha float64, rng *rand.Rand) float64 {
	walkSet := WalkSet(n, WalkSetSize)
	approving := 0
	for _, start := range walkSet {
		tip := BiasedRandomWalk(start, alpha, 0, rng)
		if dag.IsChild(n, tip) {
			approving++
		}
	}
	return float64(approving) / float64(len(walkSet))
}

// Confirmed reports whether n's confirmation confidence meets or exceeds
// threshold theta.
func Confirmed(n *dag.Node, theta float64, rng *rand.Rand) bool {
	return ConfirmationConfidence(n, DefaultAlpha, rng) >= theta
}
