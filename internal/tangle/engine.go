// Package tangle implements the tangle engine: the single point of
// structural mutation over the DAG built from internal/dag, genesis
// management, balance queries, and persistence.
package tangle

import (
	"fmt"
	"sync"

	"github.com/duskcoin/tangled/internal/dag"
	"github.com/duskcoin/tangled/internal/metrics"
	"github.com/duskcoin/tangled/pkg/kern"
)

// Engine owns the tangle's genesis node, its tip set, and a hash-to-node
// acceleration map. Exactly one mutex guards structural mutation (add,
// removeTip, setGenesis) and the engine's maps; lookups through those
// maps (Genesis, Resolves, Find, Tips, ListTransactions) hold mu briefly,
// while traversal of the graph itself relies on dag.Node's own per-node
// children locks.
type Engine struct {
	mu sync.Mutex

	genesis *dag.Node

	// byHash is an internal hash-to-node acceleration map kept consistent
	// with the graph under mu. Every operation that consults it for more
	// than a point-in-time snapshot still holds mu.
	byHash map[kern.Hash]*dag.Node
	tips   map[kern.Hash]*dag.Node

	weights *weightWorker

	replacingGenesis bool
}

// New constructs an Engine around an already-mined genesis transaction.
func New(genesisTx kern.Transaction) (*Engine, error) {
	if !genesisTx.IsGenesis() {
		return nil, fmt.Errorf("tangle: genesis transaction must have no parents")
	}
	genesis := dag.NewNode(genesisTx, nil)
	e := &Engine{
		genesis: genesis,
		byHash:  map[kern.Hash]*dag.Node{genesisTx.Hash(): genesis},
		tips:    map[kern.Hash]*dag.Node{genesisTx.Hash(): genesis},
	}
	e.weights = newWeightWorker(e)
	go e.weights.run()
	return e, nil
}

// Genesis returns the current genesis node.
func (e *Engine) Genesis() *dag.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.genesis
}

// Resolves implements kern.ParentResolver.
func (e *Engine) Resolves(hash kern.Hash) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.byHash[hash]
	return ok
}

// Find looks up a node by hash, O(1) via the acceleration map.
func (e *Engine) Find(hash kern.Hash) *dag.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.byHash[hash]
}

// Tips returns a snapshot of the current tip set.
func (e *Engine) Tips() []*dag.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*dag.Node, 0, len(e.tips))
	for _, n := range e.tips {
		out = append(out, n)
	}
	return out
}

// ListTransactions returns every node currently in the graph. Order is
// unspecified; callers needing topological order should use
// listTopological (see persist.go).
func (e *Engine) ListTransactions() []*dag.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*dag.Node, 0, len(e.byHash))
	for _, n := range e.byHash {
		out = append(out, n)
	}
	return out
}

// AddOptions configures relaxed validation for bulk sync.
type AddOptions struct {
	// SkipBalance disables validateBalance, used during initial bulk
	// sync where history arrives in an order that would otherwise
	// reject legitimate transactions.
	SkipBalance bool
	// DisableWeightUpdate skips enqueuing the node for cumulative-weight
	// recomputation, used by loadTangle which performs one pass from
	// every tip afterward instead.
	DisableWeightUpdate bool
}

// Add runs the mining/signature/totals validation pipeline plus
// validateBalance and, if every check passes, attaches the node to the
// graph under the engine mutex. The totals check is skipped for a
// genesis transaction, whose outputs are the initial mint with no inputs
// behind them. Returns the transaction's hash on success. Adding an already-present hash is a no-op (idempotent).
func (e *Engine) Add(tx kern.Transaction, opts AddOptions) (kern.Hash, error) {
	// Step 1: validations that don't need the mutex.
	if err := kern.ValidateMined(tx); err != nil {
		return kern.Hash{}, err
	}
	if err := kern.ValidateSignatures(tx); err != nil {
		return kern.Hash{}, err
	}
	if !tx.IsGenesis() {
		if err := kern.ValidateTotals(tx); err != nil {
			return kern.Hash{}, err
		}
	}

	// Step 2: acquire the mutex for everything touching graph state.
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.replacingGenesis {
		return kern.Hash{}, kern.CancelledErr{}
	}

	if existing, ok := e.byHash[tx.Hash()]; ok {
		return existing.Hash(), nil
	}

	if !tx.IsGenesis() && len(tx.ParentHashes) == 0 {
		return kern.Hash{}, kern.NodeNotFoundErr{}
	}
	parents := make([]*dag.Node, 0, len(tx.ParentHashes))
	for _, ph := range tx.ParentHashes {
		p, ok := e.byHash[ph]
		if !ok {
			return kern.Hash{}, kern.NodeNotFoundErr{Hash: ph}
		}
		parents = append(parents, p)
	}

	if !opts.SkipBalance {
		if err := e.validateBalanceLocked(tx); err != nil {
			return kern.Hash{}, err
		}
	}

	node := dag.NewNode(tx, parents)
	for _, p := range parents {
		delete(e.tips, p.Hash())
		p.Attach(node)
	}
	e.tips[node.Hash()] = node
	e.byHash[node.Hash()] = node

	if !opts.DisableWeightUpdate {
		e.weights.enqueue(node)
	}

	metrics.NodeCount.Set(float64(len(e.byHash)))
	metrics.TipSetSize.Set(float64(len(e.tips)))

	return node.Hash(), nil
}

// RemoveTip removes a childless node from the graph. Used internally by
// setGenesis to tear down the old graph.
func (e *Engine) RemoveTip(hash kern.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeTipLocked(hash)
}

func (e *Engine) removeTipLocked(hash kern.Hash) error {
	node, ok := e.byHash[hash]
	if !ok {
		return kern.NodeNotFoundErr{Hash: hash}
	}
	if !node.IsTip() {
		return kern.NotATipErr{Hash: hash}
	}
	for _, p := range node.Parents() {
		p.Detach(hash)
		if p.IsTip() {
			e.tips[p.Hash()] = p
		}
	}
	delete(e.tips, hash)
	delete(e.byHash, hash)
	return nil
}

// SetGenesis tears down the entire current graph by repeated removeTip and
// installs a fresh root. Intended for use during initial sync; add is
// rejected for the duration of the replacement.
func (e *Engine) SetGenesis(genesisTx kern.Transaction) error {
	if !genesisTx.IsGenesis() {
		return fmt.Errorf("tangle: setGenesis requires a parentless transaction")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.replacingGenesis = true
	defer func() { e.replacingGenesis = false }()

	for {
		tips := make([]kern.Hash, 0, len(e.tips))
		for h := range e.tips {
			tips = append(tips, h)
		}
		drained := false
		for _, h := range tips {
			if h == e.genesis.Hash() && len(e.byHash) == 1 {
				continue
			}
			if err := e.removeTipLocked(h); err == nil {
				drained = true
			}
		}
		if !drained {
			break
		}
	}

	genesis := dag.NewNode(genesisTx, nil)
	e.genesis = genesis
	e.byHash = map[kern.Hash]*dag.Node{genesisTx.Hash(): genesis}
	e.tips = map[kern.Hash]*dag.Node{genesisTx.Hash(): genesis}
	return nil
}

func (e *Engine) validateBalanceLocked(tx kern.Transaction) error {
	balances, err := e.balancesLocked(0)
	if err != nil {
		return err
	}
	for _, in := range tx.Inputs {
		if balances[in.Account.Hash()] < in.Amount {
			return kern.InvalidBalanceErr{
				Node:    tx.Hash(),
				Account: in.Account.Hash(),
				Balance: balances[in.Account.Hash()] - in.Amount,
			}
		}
		balances[in.Account.Hash()] -= in.Amount
	}
	return nil
}
