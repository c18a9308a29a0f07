// Package dag implements the node and edge primitives of the tangle:
// parent/child links, traversal, and per-node cumulative weight. It knows
// nothing about mining, gossip, or the engine mutex that guards structural
// mutation -- those live in internal/tangle.
package dag

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/duskcoin/tangled/pkg/kern"
)

// Node wraps a mined kern.Transaction with graph connectivity. Parents are
// immutable strong references fixed at construction; children are a
// mutable, insertion-ordered set guarded by childrenMu so that read-only
// traversal never needs the tangle engine's mutex.
//
// Parent-to-child is the sole owning direction: a Node is kept alive by its
// parents' children slices. Child-to-parent is a back-reference only, so
// the graph cannot keep itself alive past genesis teardown by a reference
// cycle.
type Node struct {
	Tx        kern.Transaction
	IsGenesis bool

	parents []*Node // immutable after construction

	childrenMu sync.RWMutex
	children   []*Node

	// cumulativeWeight is written by the weight-recomputation worker and
	// read by tip selection; stored as bits of a float64 so reads never
	// race with the worker's writes (see internal/consensus).
	cumulativeWeightBits uint64
}

// NewNode constructs a Node from a mined transaction and its already-
// resolved parent Nodes. ownWeight is seeded as the node's initial
// cumulative weight; the background worker will grow it as descendants are
// added.
func NewNode(tx kern.Transaction, parents []*Node) *Node {
	n := &Node{
		Tx:        tx,
		IsGenesis: tx.IsGenesis(),
		parents:   append([]*Node{}, parents...),
	}
	n.setCumulativeWeight(n.OwnWeight())
	return n
}

// Hash is a convenience passthrough to the wrapped transaction's hash.
func (n *Node) Hash() kern.Hash {
	return n.Tx.Hash()
}

// OwnWeight implements ownWeight(n) = min(n.miningDifficulty / 5, 1).
func (n *Node) OwnWeight() float64 {
	w := float64(n.Tx.MiningDifficulty) / 5
	if w > 1 {
		return 1
	}
	return w
}

// Parents returns the node's immutable parent set. Safe to read without
// locking since parents never change after construction.
func (n *Node) Parents() []*Node {
	out := make([]*Node, len(n.parents))
	copy(out, n.parents)
	return out
}

// Children returns a snapshot of the node's current children, taken under
// a read lock.
func (n *Node) Children() []*Node {
	n.childrenMu.RLock()
	defer n.childrenMu.RUnlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// IsTip reports whether the node currently has no children.
func (n *Node) IsTip() bool {
	n.childrenMu.RLock()
	defer n.childrenMu.RUnlock()
	return len(n.children) == 0
}

// Attach appends a child under the write lock, preserving insertion order.
// Only called by internal/tangle under the engine mutex.
func (n *Node) Attach(c *Node) {
	n.childrenMu.Lock()
	defer n.childrenMu.Unlock()
	n.children = append(n.children, c)
}

// Detach drops a child by hash, used when a tip is removed during genesis
// replacement. Only called by internal/tangle under the engine mutex.
func (n *Node) Detach(hash kern.Hash) {
	n.childrenMu.Lock()
	defer n.childrenMu.Unlock()
	for i, c := range n.children {
		if c.Hash() == hash {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// CumulativeWeight reads the node's current cumulative weight. Lock-free:
// the weight-recomputation worker writes it atomically and this is the
// only writer, so a plain atomic load is sufficient (see design notes on
// treating cumulativeWeight as a hint).
func (n *Node) CumulativeWeight() float64 {
	bits := atomic.LoadUint64(&n.cumulativeWeightBits)
	return math.Float64frombits(bits)
}

func (n *Node) setCumulativeWeight(w float64) {
	atomic.StoreUint64(&n.cumulativeWeightBits, math.Float64bits(w))
}

// RecomputeCumulativeWeight recomputes this node's cumulative weight as
// ownWeight plus the sum of immediate children's cumulative weights. It
// is idempotent and safe to call concurrently with other nodes'
// recomputations; it takes only this node's children read lock.
func (n *Node) RecomputeCumulativeWeight() float64 {
	children := n.Children()
	total := n.OwnWeight()
	for _, c := range children {
		total += c.CumulativeWeight()
	}
	n.setCumulativeWeight(total)
	return total
}
