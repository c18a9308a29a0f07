package dag

import "github.com/duskcoin/tangled/pkg/kern"

// Find performs an iterative breadth-first descent from start looking for
// hash, terminating on first match. A recursive descent from genesis
// risks stack exhaustion on a deep DAG, so this walks an explicit
// worklist instead. Worst case O(|V|) -- callers that need better should
// keep a hash-to-node map alongside the graph (internal/tangle does).
func Find(start *Node, hash kern.Hash) *Node {
	queue := []*Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Hash() == hash {
			return n
		}
		queue = append(queue, n.Children()...)
	}
	return nil
}

// IsChild reports whether target is reachable from n by following
// children, i.e. whether n is a (possibly indirect) parent of target.
func IsChild(n *Node, target *Node) bool {
	if n == target {
		return true
	}
	queue := n.Children()
	seen := map[kern.Hash]bool{}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == target {
			return true
		}
		if seen[c.Hash()] {
			continue
		}
		seen[c.Hash()] = true
		queue = append(queue, c.Children()...)
	}
	return false
}

// heightStep pairs a node reached during Height/Depth's worklist walk with
// the number of hops taken to reach it so far.
type heightStep struct {
	node  *Node
	depth int
}

// Height returns the length of the longest path from genesis to n (0 for
// genesis itself), computed by relaxation over parents: a node already
// reached by a shorter path is revisited (and re-explored) whenever a
// longer path to it is found, since multi-parent convergence means the
// first path a plain visited-once BFS finds is not necessarily the
// longest one.
func Height(n *Node) int {
	if n.IsGenesis {
		return 0
	}
	best := 0
	bestDepth := map[kern.Hash]int{}
	queue := []heightStep{{n, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.node.IsGenesis {
			if cur.depth > best {
				best = cur.depth
			}
			continue
		}
		for _, p := range cur.node.Parents() {
			nd := cur.depth + 1
			if existing, ok := bestDepth[p.Hash()]; ok && existing >= nd {
				continue
			}
			bestDepth[p.Hash()] = nd
			queue = append(queue, heightStep{p, nd})
		}
	}
	return best
}

// Depth returns the length of the longest path from n to any tip
// reachable from it (0 if n is itself a tip), computed by the same
// relaxation-over-children approach as Height, walking forward instead
// of backward.
func Depth(n *Node) int {
	best := 0
	bestDepth := map[kern.Hash]int{}
	queue := []heightStep{{n, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children := cur.node.Children()
		if len(children) == 0 {
			if cur.depth > best {
				best = cur.depth
			}
			continue
		}
		for _, c := range children {
			nd := cur.depth + 1
			if existing, ok := bestDepth[c.Hash()]; ok && existing >= nd {
				continue
			}
			bestDepth[c.Hash()] = nd
			queue = append(queue, heightStep{c, nd})
		}
	}
	return best
}

// Tips returns every node reachable from start with no children,
// deduplicated by hash.
func Tips(start *Node) []*Node {
	var out []*Node
	seen := map[kern.Hash]bool{}
	queue := []*Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n.Hash()] {
			continue
		}
		seen[n.Hash()] = true
		children := n.Children()
		if len(children) == 0 {
			out = append(out, n)
			continue
		}
		queue = append(queue, children...)
	}
	return out
}
