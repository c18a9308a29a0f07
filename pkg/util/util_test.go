package util_test

import (
	"testing"

	"github.com/duskcoin/tangled/pkg/util"
)

func TestPrepend(t *testing.T) {
	out := util.Prepend([]int{2, 3}, 1)
	util.Assert(t, len(out) == 3 && out[0] == 1 && out[1] == 2 && out[2] == 3, "prepend should put items before the original slice, got %v", out)
}

func TestReverseDoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3}
	out := util.Reverse(in)
	util.Assert(t, out[0] == 3 && out[1] == 2 && out[2] == 1, "reverse should flip order, got %v", out)
	util.Assert(t, in[0] == 1, "reverse must not mutate its input, got %v", in)
}

func TestFlattenLists(t *testing.T) {
	out := util.FlattenLists([][]int{{1, 2}, {}, {3}})
	util.Assert(t, len(out) == 3 && out[0] == 1 && out[1] == 2 && out[2] == 3, "flatten should concatenate in order, got %v", out)
}

func TestSetAddRemoveIncludes(t *testing.T) {
	s := util.NewSet[string]("a", "b")
	util.Assert(t, s.Includes("a"), "a should be present after construction")
	util.Assert(t, s.Size() == 2, "expected size 2, got %d", s.Size())
	s.Add("c")
	util.Assert(t, s.Includes("c"), "c should be present after Add")
	s.Remove("a")
	util.Assert(t, !s.Includes("a"), "a should be gone after Remove")
	util.Assert(t, s.Size() == 2, "expected size 2 after add+remove, got %d", s.Size())
}

func TestQueueFIFOOrder(t *testing.T) {
	q := util.NewQueue[int]()
	q.Push(1, 2, 3)
	util.Assert(t, q.Size() == 3, "expected size 3, got %d", q.Size())

	v, ok := q.Pop()
	util.Assert(t, ok && v == 1, "first pop should return the first pushed item, got %d ok=%v", v, ok)

	q.Push(4)
	v, ok = q.Pop()
	util.Assert(t, ok && v == 2, "pop should stay FIFO across an interleaved push, got %d ok=%v", v, ok)
}

func TestQueuePopEmpty(t *testing.T) {
	q := util.NewQueue[int]()
	_, ok := q.Pop()
	util.Assert(t, !ok, "popping an empty queue should report ok=false")
}

func TestSyncMapStoreGetHas(t *testing.T) {
	sm := util.NewSyncMap[string, int]()
	util.Assert(t, !sm.Has("x"), "unstored key should not be present")

	sm.Store("x", 42)
	util.Assert(t, sm.Has("x"), "stored key should be present")

	v, ok := sm.Get("x")
	util.Assert(t, ok && v == 42, "expected 42, got %d ok=%v", v, ok)

	seen := map[string]int{}
	sm.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	util.Assert(t, seen["x"] == 42, "Range should visit every stored entry")
}
