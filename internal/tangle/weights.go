package tangle

import "github.com/duskcoin/tangled/internal/dag"

// weightWorker recomputes cumulative weight along the ancestor path of
// every newly added node. Detaching a worker per add would permit
// interleaved, redundant writes; a single background worker fed by a
// channel is the cleaner shape, so this is that worker. It never
// re-enters the engine mutex -- it only holds per-node children read
// locks, acquired transitively through dag.Node.RecomputeCumulativeWeight
// and Parents.
type weightWorker struct {
	engine *Engine
	work   chan *dag.Node
}

func newWeightWorker(e *Engine) *weightWorker {
	return &weightWorker{
		engine: e,
		work:   make(chan *dag.Node, 1024),
	}
}

// enqueue schedules node for a weight-recomputation walk. Called under the
// engine mutex as the last step of adding a node; the send itself must
// not block the caller holding the mutex, so the channel is buffered and
// enqueue falls back to a detached goroutine if it's full.
func (w *weightWorker) enqueue(node *dag.Node) {
	select {
	case w.work <- node:
	default:
		go func() { w.work <- node }()
	}
}

func (w *weightWorker) run() {
	for node := range w.work {
		w.recomputeFrom(node)
	}
}

// recomputeFrom walks from node toward genesis, recomputing cumulative
// weight at every visited ancestor exactly once per pass. The recurrence
// (ownWeight plus the sum of immediate children's weights) is idempotent,
// so even if two passes interleave across nodes, the final observable
// weight is determined by graph state rather than interleaving order.
func (w *weightWorker) recomputeFrom(node *dag.Node) {
	queued := map[*dag.Node]bool{node: true}
	frontier := []*dag.Node{node}
	for len(frontier) > 0 {
		next := []*dag.Node{}
		for _, n := range frontier {
			n.RecomputeCumulativeWeight()
			for _, p := range n.Parents() {
				if queued[p] {
					continue
				}
				queued[p] = true
				next = append(next, p)
			}
		}
		frontier = next
	}
}

// UpdateWeights forces a full cumulative-weight recomputation pass from
// every tip, implementing the gossip-triggerable UpdateWeightsRequest.
func (e *Engine) UpdateWeights() {
	for _, tip := range e.Tips() {
		e.weights.recomputeFrom(tip)
	}
}
