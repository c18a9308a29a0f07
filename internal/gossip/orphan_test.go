package gossip

import (
	"testing"

	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/util"
)

func TestOrphanQueueDrainOnceRetriesStillOrphan(t *testing.T) {
	q := newOrphanQueue()
	var a, b kern.Transaction
	q.push(a)
	q.push(b)
	util.Assert(t, q.len() == 2, "expected 2 queued, got %d", q.len())

	seen := 0
	q.drainOnce(func(kern.Transaction) bool {
		seen++
		return true // still orphan, gets re-queued
	})
	util.Assert(t, seen == 2, "drainOnce should visit every item present at pass start, got %d", seen)
	util.Assert(t, q.len() == 2, "still-orphan items should be pushed back, got len %d", q.len())
}

func TestOrphanQueueDrainOnceResolvesAndRemoves(t *testing.T) {
	q := newOrphanQueue()
	var a, b kern.Transaction
	q.push(a)
	q.push(b)

	first := true
	q.drainOnce(func(kern.Transaction) bool {
		resolved := first
		first = false
		return !resolved // first item resolves, second stays orphan
	})
	util.Assert(t, q.len() == 1, "one item should have been resolved and dropped, got len %d", q.len())
}

func TestOrphanQueueDrainOnceIgnoresItemsAddedMidDrain(t *testing.T) {
	q := newOrphanQueue()
	var a kern.Transaction
	q.push(a)

	calls := 0
	q.drainOnce(func(kern.Transaction) bool {
		calls++
		q.push(a) // enqueued mid-drain, should not be visited this pass
		return false
	})
	util.Assert(t, calls == 1, "drainOnce should bound itself to the queue length at pass start, got %d calls", calls)
	util.Assert(t, q.len() == 1, "the mid-drain push should still be queued for next pass, got len %d", q.len())
}
