package gossip

import (
	"math/rand"
	"time"

	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

// fundIfZero implements network-funded onboarding (original_source's
// PublicKeySyncResponse listener that gives "a million money"): after a
// short settle delay, pay account fundAmt from the local key if its
// balance is still zero. Two peers syncing keys within the settle window
// can both read a zero balance and both get funded; the original tolerates
// the same race, so this does too.
func (g *Gossip) fundIfZero(account xcrypto.PublicKey) {
	time.Sleep(500 * time.Millisecond)

	balance, err := g.engine.QueryBalance(account, 0)
	if err != nil || balance != 0 {
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	parents := g.engine.SelectParents(rng)
	parentHashes := make([]kern.Hash, len(parents))
	for i, p := range parents {
		parentHashes[i] = p.Hash()
	}

	skel := kern.Skeleton{
		ParentHashes:     parentHashes,
		Inputs:           []kern.Input{{Account: g.self.Public, Amount: g.fundAmt}},
		Outputs:          []kern.Output{{Account: account, Amount: g.fundAmt}},
		MiningDifficulty: 1,
		Timestamp:        time.Now(),
	}
	if err := skel.SignInput(0, g.self.Private); err != nil {
		return
	}
	tx, err := kern.Mine(skel, nil)
	if err != nil {
		return
	}
	_ = g.insertAndRebroadcast(tx)
}
