package gossip

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/duskcoin/tangled/internal/metrics"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

// autoPinger implements the CLI 'p' toggle from original_source/src/main.cpp:
// once enabled, every live AddTransactionRequest triggers, after a short
// settle delay, a same-amount payment forwarded to a random known peer,
// with at most one ping in flight at a time (pingingThreads < 1 in the
// original).
type autoPinger struct {
	g        *Gossip
	active   atomic.Bool
	inFlight atomic.Bool
}

func newAutoPinger(g *Gossip) *autoPinger {
	return &autoPinger{g: g}
}

func (p *autoPinger) Enable()       { p.active.Store(true) }
func (p *autoPinger) Disable()      { p.active.Store(false) }
func (p *autoPinger) Enabled() bool { return p.active.Load() }

// observe is called with every transaction that insertAndRebroadcast
// accepted, whether relayed by a peer or originated locally. It is a no-op unless pinging is enabled and
// no ping is currently outstanding.
func (p *autoPinger) observe(tx kern.Transaction) {
	if !p.active.Load() {
		return
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.inFlight.Store(false)
		time.Sleep(500 * time.Millisecond)

		if p.g.engine.Find(tx.Hash()) == nil {
			return
		}
		targets := p.g.keys.All()
		if len(targets) == 0 {
			return
		}
		choices := make([]xcrypto.PublicKey, 0, len(targets))
		for _, pk := range targets {
			choices = append(choices, pk)
		}
		target := choices[rand.Intn(len(choices))]

		if err := p.g.ping(target, tx.OutputsTotal()); err != nil {
			return
		}
	}()
}

// ping mines and rebroadcasts a payment of amount from the local key to
// target, choosing parents the same way a normal user transaction would.
func (g *Gossip) ping(target xcrypto.PublicKey, amount float64) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	parents := g.engine.SelectParents(rng)
	parentHashes := make([]kern.Hash, len(parents))
	for i, p := range parents {
		parentHashes[i] = p.Hash()
	}

	skel := kern.Skeleton{
		ParentHashes:     parentHashes,
		Inputs:           []kern.Input{{Account: g.self.Public, Amount: amount}},
		Outputs:          []kern.Output{{Account: target, Amount: amount}},
		MiningDifficulty: 3,
		Timestamp:        time.Now(),
	}
	if err := skel.SignInput(0, g.self.Private); err != nil {
		return err
	}
	start := time.Now()
	tx, err := kern.Mine(skel, nil)
	if err != nil {
		return err
	}
	metrics.RecordMined(time.Since(start))
	return g.insertAndRebroadcast(tx)
}
