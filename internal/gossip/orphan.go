package gossip

import (
	"sync"

	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/util"
)

// orphanQueue is a FIFO of transactions received before all of their
// parents were present locally. It is guarded by its own mutex,
// independent of the engine mutex.
type orphanQueue struct {
	mu sync.Mutex
	q  *util.Queue[kern.Transaction]
}

func newOrphanQueue() *orphanQueue {
	return &orphanQueue{q: util.NewQueue[kern.Transaction]()}
}

func (q *orphanQueue) push(tx kern.Transaction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.q.Push(tx)
}

// drainOnce pops and retries every item that was present at the start of
// the pass via apply, bounded to the queue's length at that moment so
// items enqueued mid-drain wait for the next insertion. Items apply
// reports as still missing parents are pushed back to the end of the
// queue.
func (q *orphanQueue) drainOnce(apply func(kern.Transaction) (stillOrphan bool)) {
	q.mu.Lock()
	n := q.q.Size()
	q.mu.Unlock()

	for i := 0; i < n; i++ {
		q.mu.Lock()
		tx, ok := q.q.Pop()
		q.mu.Unlock()
		if !ok {
			return
		}
		if apply(tx) {
			q.push(tx)
		}
	}
}

func (q *orphanQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.q.Size()
}
