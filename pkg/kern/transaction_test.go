package kern_test

import (
	"testing"
	"time"

	. "github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/util"
	"github.com/duskcoin/tangled/pkg/xcrypto"
	"github.com/duskcoin/tangled/pkg/xhash"
)

type allResolver struct{}

func (allResolver) Resolves(h Hash) bool { return true }

func newKeyPair(t *testing.T) KeyPair {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	return kp
}

func mineDifficulty(t *testing.T, skel Skeleton, kp KeyPair, difficulty uint8) Transaction {
	skel.MiningDifficulty = difficulty
	for i := range skel.Inputs {
		util.AssertNoErr(t, skel.SignInput(i, kp.Private))
	}
	tx, err := Mine(skel, nil)
	util.AssertNoErr(t, err)
	return tx
}

func TestMineSatisfiesDifficulty(t *testing.T) {
	kp := newKeyPair(t)
	for _, d := range []uint8{1, 2, 3} {
		skel := Skeleton{
			Outputs:          []Output{{Account: kp.Public, Amount: 1}},
			MiningDifficulty: d,
			Timestamp:        time.Unix(0, 0),
		}
		tx, err := Mine(skel, nil)
		util.AssertNoErr(t, err)
		util.Assert(
			t, tx.Hash().LeadingHexZeros() >= int(d),
			"mined hash does not satisfy difficulty %d", d,
		)
	}
}

func TestRemineYieldsDistinctHash(t *testing.T) {
	kp := newKeyPair(t)
	skel := Skeleton{
		Outputs:   []Output{{Account: kp.Public, Amount: 1}},
		Timestamp: time.Unix(1000, 0),
	}
	tx1, err := Mine(skel, nil)
	util.AssertNoErr(t, err)

	tx2, err := Remine(skel, time.Unix(2000, 0), nil)
	util.AssertNoErr(t, err)

	util.Assert(t, tx1.Hash() != tx2.Hash(), "remine with different timestamp should change hash")
}

func TestValidateMinedRejectsUnmetDifficulty(t *testing.T) {
	kp := newKeyPair(t)
	skel := Skeleton{
		Outputs:   []Output{{Account: kp.Public, Amount: 1}},
		Timestamp: time.Unix(0, 0),
	}
	tx, err := Mine(skel, nil)
	util.AssertNoErr(t, err)
	tx.MiningDifficulty = 64 // well beyond what was actually mined
	err = ValidateMined(tx)
	util.Assert(t, err != nil, "expected ValidateMined to reject inflated difficulty claim")
}

func TestValidateSignaturesRoundTrip(t *testing.T) {
	payer := newKeyPair(t)
	payee := newKeyPair(t)
	skel := Skeleton{
		Inputs:    []Input{{Account: payer.Public, Amount: 10}},
		Outputs:   []Output{{Account: payee.Public, Amount: 10}},
		Timestamp: time.Unix(0, 0),
	}
	tx := mineDifficulty(t, skel, payer, 0)
	util.AssertNoErr(t, ValidateSignatures(tx))
}

func TestValidateTotalsRejectsOverspend(t *testing.T) {
	payer := newKeyPair(t)
	payee := newKeyPair(t)
	skel := Skeleton{
		Inputs:    []Input{{Account: payer.Public, Amount: 10}},
		Outputs:   []Output{{Account: payee.Public, Amount: 20}},
		Timestamp: time.Unix(0, 0),
	}
	tx := mineDifficulty(t, skel, payer, 0)
	err := ValidateTotals(tx)
	util.Assert(t, err != nil, "expected overspend to be rejected")
}

func TestValidateParentsRejectsMissingParent(t *testing.T) {
	kp := newKeyPair(t)
	skel := Skeleton{
		ParentHashes: []Hash{xhash.NewRand()},
		Outputs:      []Output{{Account: kp.Public, Amount: 1}},
		Timestamp:    time.Unix(0, 0),
	}
	tx, err := Mine(skel, nil)
	util.AssertNoErr(t, err)
	err = ValidateParents(tx, noneResolver{})
	util.Assert(t, err != nil, "expected missing parent to be rejected")
}

type noneResolver struct{}

func (noneResolver) Resolves(h Hash) bool { return false }
