package tangle

import (
	"math/rand"

	"github.com/duskcoin/tangled/internal/consensus"
	"github.com/duskcoin/tangled/internal/dag"
)

// SelectParents runs two independent biased random walks from genesis and
// returns their (deduplicated) endpoints, the reference tip-selection
// strategy for a newly constructed transaction. Walking twice instead of
// once gives a new transaction two parents whenever the graph has diverged
// enough to offer distinct tips, narrowing the tip set without requiring
// every transaction to reference every tip.
func (e *Engine) SelectParents(rng *rand.Rand) []*dag.Node {
	genesis := e.Genesis()
	a := consensus.BiasedRandomWalk(genesis, consensus.DefaultAlpha, 0, rng)
	b := consensus.BiasedRandomWalk(genesis, consensus.DefaultAlpha, 0, rng)
	if a.Hash() == b.Hash() {
		return []*dag.Node{a}
	}
	return []*dag.Node{a, b}
}
