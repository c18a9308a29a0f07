package tangle_test

import (
	"testing"
	"time"

	"github.com/duskcoin/tangled/internal/tangle"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/util"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

func mustMine(t *testing.T, skel kern.Skeleton) kern.Transaction {
	tx, err := kern.Mine(skel, nil)
	util.AssertNoErr(t, err)
	return tx
}

func newGenesisEngine(t *testing.T, payeeOut kern.Output) (*tangle.Engine, kern.Transaction) {
	genesisTx := mustMine(t, kern.Skeleton{
		Outputs:   []kern.Output{payeeOut},
		Timestamp: time.Unix(0, 0),
	})
	e, err := tangle.New(genesisTx)
	util.AssertNoErr(t, err)
	return e, genesisTx
}

func signedMined(t *testing.T, skel kern.Skeleton, payer kern.KeyPair, difficulty uint8) kern.Transaction {
	skel.MiningDifficulty = difficulty
	for i := range skel.Inputs {
		util.AssertNoErr(t, skel.SignInput(i, payer.Private))
	}
	return mustMine(t, skel)
}

func TestGenesisOnlyBalance(t *testing.T) {
	ka, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	kb, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	e, _ := newGenesisEngine(t, kern.Output{Account: ka.Public, Amount: 1e9})

	balA, err := e.QueryBalance(ka.Public, 0)
	util.AssertNoErr(t, err)
	util.Assert(t, balA == 1e9, "expected KA balance 1e9, got %f", balA)

	balB, err := e.QueryBalance(kb.Public, 0)
	util.AssertNoErr(t, err)
	util.Assert(t, balB == 0, "expected KB balance 0, got %f", balB)
}

func TestSingleTransfer(t *testing.T) {
	ka, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	kb, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	e, genesisTx := newGenesisEngine(t, kern.Output{Account: ka.Public, Amount: 1e9})

	tx1 := signedMined(t, kern.Skeleton{
		ParentHashes: []kern.Hash{genesisTx.Hash()},
		Inputs:       []kern.Input{{Account: ka.Public, Amount: 100}},
		Outputs:      []kern.Output{{Account: kb.Public, Amount: 100}},
		Timestamp:    time.Unix(1, 0),
	}, ka, 1)

	_, err = e.Add(tx1, tangle.AddOptions{})
	util.AssertNoErr(t, err)

	balA, err := e.QueryBalance(ka.Public, 0)
	util.AssertNoErr(t, err)
	util.Assert(t, balA == 999_999_900, "expected KA balance 999999900, got %f", balA)

	balB, err := e.QueryBalance(kb.Public, 0)
	util.AssertNoErr(t, err)
	util.Assert(t, balB == 100, "expected KB balance 100, got %f", balB)
}

func TestDoubleSpendRejected(t *testing.T) {
	ka, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	kb, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	e, genesisTx := newGenesisEngine(t, kern.Output{Account: ka.Public, Amount: 1e9})

	tx1 := signedMined(t, kern.Skeleton{
		ParentHashes: []kern.Hash{genesisTx.Hash()},
		Inputs:       []kern.Input{{Account: ka.Public, Amount: 100}},
		Outputs:      []kern.Output{{Account: kb.Public, Amount: 100}},
		Timestamp:    time.Unix(1, 0),
	}, ka, 1)
	_, err = e.Add(tx1, tangle.AddOptions{})
	util.AssertNoErr(t, err)

	before := len(e.ListTransactions())

	tx2 := signedMined(t, kern.Skeleton{
		ParentHashes: []kern.Hash{tx1.Hash()},
		Inputs:       []kern.Input{{Account: ka.Public, Amount: 999_999_999}},
		Outputs:      []kern.Output{{Account: kb.Public, Amount: 999_999_999}},
		Timestamp:    time.Unix(2, 0),
	}, ka, 1)
	_, err = e.Add(tx2, tangle.AddOptions{})
	util.Assert(t, err != nil, "expected overspend to fail")
	if _, ok := err.(kern.InvalidBalanceErr); !ok {
		t.Fatalf("expected InvalidBalanceErr, got %T: %v", err, err)
	}

	util.Assert(t, len(e.ListTransactions()) == before, "graph should be unchanged after rejected add")
}

func TestAddIdempotent(t *testing.T) {
	ka, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	e, genesisTx := newGenesisEngine(t, kern.Output{Account: ka.Public, Amount: 1e9})

	h1, err := e.Add(genesisTx, tangle.AddOptions{})
	util.AssertNoErr(t, err)
	h2, err := e.Add(genesisTx, tangle.AddOptions{})
	util.AssertNoErr(t, err)
	util.Assert(t, h1 == h2, "re-adding genesis should be a no-op returning the same hash")
}
