package dag_test

import (
	"testing"
	"time"

	"github.com/duskcoin/tangled/internal/dag"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/util"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

func mustMine(t *testing.T, skel kern.Skeleton) kern.Transaction {
	tx, err := kern.Mine(skel, nil)
	util.AssertNoErr(t, err)
	return tx
}

func TestOwnWeight(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	genesisTx := mustMine(t, kern.Skeleton{
		Outputs:          []kern.Output{{Account: kp.Public, Amount: 1e9}},
		MiningDifficulty: 5,
		Timestamp:        time.Unix(0, 0),
	})
	n := dag.NewNode(genesisTx, nil)
	util.Assert(t, n.OwnWeight() == 1, "difficulty 5 should saturate ownWeight at 1, got %f", n.OwnWeight())
}

func TestParentChildConsistency(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	genesisTx := mustMine(t, kern.Skeleton{
		Outputs:   []kern.Output{{Account: kp.Public, Amount: 1e9}},
		Timestamp: time.Unix(0, 0),
	})
	genesis := dag.NewNode(genesisTx, nil)

	childSkel := kern.Skeleton{
		ParentHashes: []kern.Hash{genesis.Hash()},
		Inputs:       []kern.Input{{Account: kp.Public, Amount: 1}},
		Outputs:      []kern.Output{{Account: kp.Public, Amount: 1}},
		Timestamp:    time.Unix(1, 0),
	}
	util.AssertNoErr(t, childSkel.SignInput(0, kp.Private))
	childTx := mustMine(t, childSkel)
	child := dag.NewNode(childTx, []*dag.Node{genesis})
	genesis.Attach(child)

	util.Assert(t, genesis.IsTip() == false, "genesis should no longer be a tip")
	util.Assert(t, child.IsTip(), "child should be a tip")
	util.Assert(t, dag.IsChild(genesis, child), "genesis should transitively own child")
	util.Assert(t, dag.Find(genesis, child.Hash()) == child, "find should locate child from genesis")
	util.Assert(t, dag.Height(child) == 1, "child height should be 1, got %d", dag.Height(child))
	util.Assert(t, dag.Depth(genesis) == 1, "genesis depth should be 1, got %d", dag.Depth(genesis))
}

// TestHeightTakesLongestPathThroughDiamond builds a diamond: G has
// children A and B; A has child C; B has child D; D also has child C, so
// C has two parents (A and D) reached via paths of different lengths.
// The longest path from G to C is G->B->D->C (length 3), not the shorter
// G->A->C (length 2), and Height/Depth must find it even though a
// shortest-path BFS would reach every intermediate node first via the
// shorter branch.
func TestHeightTakesLongestPathThroughDiamond(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	mkChild := func(ts int64, parents ...*dag.Node) *dag.Node {
		var parentHashes []kern.Hash
		for _, p := range parents {
			parentHashes = append(parentHashes, p.Hash())
		}
		skel := kern.Skeleton{
			ParentHashes: parentHashes,
			Inputs:       []kern.Input{{Account: kp.Public, Amount: 1}},
			Outputs:      []kern.Output{{Account: kp.Public, Amount: 1}},
			Timestamp:    time.Unix(ts, 0),
		}
		util.AssertNoErr(t, skel.SignInput(0, kp.Private))
		tx := mustMine(t, skel)
		n := dag.NewNode(tx, parents)
		for _, p := range parents {
			p.Attach(n)
		}
		return n
	}

	genesisTx := mustMine(t, kern.Skeleton{
		Outputs:   []kern.Output{{Account: kp.Public, Amount: 1e9}},
		Timestamp: time.Unix(0, 0),
	})
	g := dag.NewNode(genesisTx, nil)

	a := mkChild(1, g)
	b := mkChild(2, g)
	d := mkChild(3, b)
	c := mkChild(4, a, d)

	util.Assert(t, dag.Height(c) == 3, "longest path to c should be G->B->D->C (length 3), got %d", dag.Height(c))
	util.Assert(t, dag.Depth(g) == 3, "longest path from g should also be length 3, got %d", dag.Depth(g))
}
