package consensus_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/duskcoin/tangled/internal/consensus"
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

func newNode(t *testing.T, kp xcrypto.KeyPair, parents []*dag.Node, amount float64, ts int64) *dag.Node {
	var parentHashes []kern.Hash
	for _, p := range parents {
		parentHashes = append(parentHashes, p.Hash())
	}
	skel := kern.Skeleton{
		ParentHashes:     parentHashes,
		MiningDifficulty: 1, // ownWeight 0.2, so descendants add weight
		Timestamp:        time.Unix(ts, 0),
	}
	if len(parents) > 0 {
		skel.Inputs = []kern.Input{{Account: kp.Public, Amount: amount}}
		skel.Outputs = []kern.Output{{Account: kp.Public, Amount: amount}}
		util.AssertNoErr(t, skel.SignInput(0, kp.Private))
	} else {
		skel.Outputs = []kern.Output{{Account: kp.Public, Amount: 1e9}}
	}
	tx := mustMine(t, skel)
	n := dag.NewNode(tx, parents)
	for _, p := range parents {
		p.Attach(n)
	}
	return n
}

func TestBiasedRandomWalkStopsAtTip(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	genesis := newNode(t, kp, nil, 0, 0)

	rng := rand.New(rand.NewSource(1))
	tip := consensus.BiasedRandomWalk(genesis, consensus.DefaultAlpha, 0, rng)
	util.Assert(t, tip == genesis, "genesis has no children, walk should stop there")
}

func TestBiasedRandomWalkPrefersHeavierChild(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	genesis := newNode(t, kp, nil, 0, 0)
	light := newNode(t, kp, []*dag.Node{genesis}, 1, 1)
	heavy := newNode(t, kp, []*dag.Node{genesis}, 1, 2)

	// give heavy a descendant so its cumulative weight dominates light's
	newNode(t, kp, []*dag.Node{heavy}, 1, 3)
	heavy.RecomputeCumulativeWeight()
	light.RecomputeCumulativeWeight()
	genesis.RecomputeCumulativeWeight()

	rng := rand.New(rand.NewSource(2))
	heavyCount := 0
	const trials = 200
	for i := 0; i < trials; i++ {
		tip := consensus.BiasedRandomWalk(genesis, consensus.DefaultAlpha, 0, rng)
		if dag.IsChild(heavy, tip) || tip == heavy {
			heavyCount++
		}
	}
	util.Assert(t, heavyCount > trials/2, "walk should favor the heavier branch most of the time, got %d/%d", heavyCount, trials)
}

func TestWalkSetPadsToFixedSize(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	genesis := newNode(t, kp, nil, 0, 0)
	child := newNode(t, kp, []*dag.Node{genesis}, 1, 1)

	set := consensus.WalkSet(child, 0)
	util.Assert(t, len(set) == consensus.WalkSetSize, "walk set should always be padded to WalkSetSize, got %d", len(set))
	for _, n := range set {
		util.Assert(t, n == child, "lookback at delta 0 should only ever collect the node itself")
	}
}

func TestConfirmedRequiresThreshold(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	genesis := newNode(t, kp, nil, 0, 0)
	child := newNode(t, kp, []*dag.Node{genesis}, 1, 1)
	approver := newNode(t, kp, []*dag.Node{child}, 1, 2)
	_ = approver
	child.RecomputeCumulativeWeight()
	genesis.RecomputeCumulativeWeight()

	rng := rand.New(rand.NewSource(3))
	util.Assert(t, consensus.Confirmed(child, 0, rng), "theta=0 should always be satisfied")
}
