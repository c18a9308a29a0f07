package tangle

import (
	"math/rand"

	"github.com/duskcoin/tangled/internal/consensus"
	"github.com/duskcoin/tangled/internal/dag"
	"github.com/duskcoin/tangled/pkg/kern"
)

// QueryBalance walks the graph breadth-first from genesis and returns
// account's balance accumulated over every node visited whose confirmation
// confidence is at least theta (theta = 0 accepts every node, yielding the
// same pessimistic balance used internally during Add). A node whose
// running balance would go negative fails the whole query with
// InvalidBalanceErr; unknown accounts (never credited) simply read as 0.
func (e *Engine) QueryBalance(account kern.PublicKey, theta float64) (float64, error) {
	e.mu.Lock()
	balances, err := e.balancesLocked(theta)
	e.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return balances[account.Hash()], nil
}

// balancesLocked must be called with mu held. It performs a hash-deduped
// BFS over the graph, optionally filtering by confirmation confidence
// when theta > 0.
func (e *Engine) balancesLocked(theta float64) (map[kern.Hash]float64, error) {
	balances := map[kern.Hash]float64{}
	seen := map[kern.Hash]bool{}
	queue := []*dag.Node{e.genesis}
	rng := rand.New(rand.NewSource(1))

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n.Hash()] {
			continue
		}
		seen[n.Hash()] = true

		include := theta <= 0
		if !include {
			include = consensus.ConfirmationConfidence(n, consensus.DefaultAlpha, rng) >= theta
		}
		if include {
			for _, in := range n.Tx.Inputs {
				k := in.Account.Hash()
				next := balances[k] - in.Amount
				if next < 0 {
					return nil, kern.InvalidBalanceErr{
						Node:    n.Hash(),
						Account: k,
						Balance: next,
					}
				}
				balances[k] = next
			}
			for _, out := range n.Tx.Outputs {
				balances[out.Account.Hash()] += out.Amount
			}
		}
		queue = append(queue, n.Children()...)
	}
	return balances, nil
}
