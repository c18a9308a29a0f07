package gossip

import (
	"sync"
	"sync/atomic"

	"github.com/duskcoin/tangled/internal/dag"
	"github.com/duskcoin/tangled/internal/metrics"
	"github.com/duskcoin/tangled/internal/tangle"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/prot"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

// Peer is the minimal surface gossip needs from a connected peer: an
// identity to key rate-limiting and listening-state off of, and a way to
// push a type-tagged frame back. internal/peerfactory supplies the real
// implementation; tests can supply a fake.
type Peer interface {
	ID() string
	Send(t prot.MessageType, payload []byte)
}

// Gossip is the per-node dispatch table for the message taxonomy: it
// owns the tangle engine, the peer public-key directory, the orphan queue,
// and per-peer rate limiting, and turns inbound frames into Engine calls
// plus outbound replies/broadcasts.
type Gossip struct {
	engine *tangle.Engine
	keys   *keyDirectory
	orphan *orphanQueue
	limit  *peerRateLimiter
	self   xcrypto.KeyPair

	broadcast func(t prot.MessageType, payload []byte)

	mu                  sync.Mutex
	listeningForGenesis map[string]bool

	pinger   *autoPinger
	autoFund atomic.Bool
	fundAmt  float64
}

// New wires a Gossip dispatcher around an already-constructed engine. self
// is the local keypair announced in response to PublicKeySyncRequest.
// broadcast sends a frame to every currently connected peer; on
// rebroadcast that includes the peer the transaction came from, which
// drops it as already present.
func New(engine *tangle.Engine, self xcrypto.KeyPair, broadcast func(prot.MessageType, []byte)) *Gossip {
	g := &Gossip{
		engine:              engine,
		keys:                newKeyDirectory(),
		orphan:              newOrphanQueue(),
		limit:               newPeerRateLimiter(50, 100),
		self:                self,
		broadcast:           broadcast,
		listeningForGenesis: map[string]bool{},
	}
	g.pinger = newAutoPinger(g)
	return g
}

// EnableAutoPinger turns on the ping-relay behavior (CLI 'p' command).
func (g *Gossip) EnableAutoPinger() { g.pinger.Enable() }

// DisableAutoPinger turns off the ping-relay behavior.
func (g *Gossip) DisableAutoPinger() { g.pinger.Disable() }

// AutoPingerEnabled reports the current ping-relay toggle state.
func (g *Gossip) AutoPingerEnabled() bool { return g.pinger.Enabled() }

// SetAutoFund toggles network-funded onboarding: whenever a peer's public
// key syncs in with a zero balance, the local key sends it amount. Only
// meaningful when the local key is the genesis-funded network key.
func (g *Gossip) SetAutoFund(enabled bool, amount float64) {
	g.autoFund.Store(enabled)
	g.fundAmt = amount
}

// KnownKeys exposes the peer public-key directory for the local agent's
// transaction-construction flow.
func (g *Gossip) KnownKeys() map[string]xcrypto.PublicKey {
	return g.keys.All()
}

// RequestSync sends a TangleSynchronizeRequest to peer and marks it as the
// source we're listening for a genesis replacement from.
func (g *Gossip) RequestSync(peer Peer) {
	g.mu.Lock()
	g.listeningForGenesis[peer.ID()] = true
	g.mu.Unlock()
	peer.Send(prot.MessageTypeTangleSynchronizeRequest, EncodeTangleSynchronizeRequest(TangleSynchronizeRequest{}))
}

// Handle dispatches one inbound frame from peer. A non-nil error means the
// frame was malformed or failed validation; this is not grounds for
// disconnecting the peer, only for dropping the message.
func (g *Gossip) Handle(peer Peer, t prot.MessageType, payload []byte) error {
	if !g.limit.allow(peer.ID()) {
		return nil
	}
	switch t {
	case prot.MessageTypePublicKeySyncRequest:
		return g.handlePublicKeySyncRequest(peer, payload)
	case prot.MessageTypePublicKeySyncResponse:
		return g.handlePublicKeySyncResponse(peer, payload)
	case prot.MessageTypeTangleSynchronizeRequest:
		return g.handleTangleSynchronizeRequest(peer, payload)
	case prot.MessageTypeSyncGenesisRequest:
		return g.handleSyncGenesisRequest(peer, payload)
	case prot.MessageTypeSynchronizationAddTransactionRequest:
		return g.handleSynchronizationAddTransactionRequest(peer, payload)
	case prot.MessageTypeAddTransactionRequest:
		return g.handleAddTransactionRequest(peer, payload)
	case prot.MessageTypeUpdateWeightsRequest:
		return g.handleUpdateWeightsRequest(payload)
	default:
		return kern.InvalidHashErr{}
	}
}

func (g *Gossip) handlePublicKeySyncRequest(peer Peer, payload []byte) error {
	_ = DecodePublicKeySyncRequest(payload)
	peer.Send(prot.MessageTypePublicKeySyncResponse, EncodePublicKeySyncResponse(NewPublicKeySyncResponse(g.self.Public)))
	return nil
}

func (g *Gossip) handlePublicKeySyncResponse(peer Peer, payload []byte) error {
	m, err := DecodePublicKeySyncResponse(payload)
	if err != nil {
		return err
	}
	g.keys.record(peer.ID(), m.PK)
	if g.autoFund.Load() {
		go g.fundIfZero(m.PK)
	}
	return nil
}

// handleTangleSynchronizeRequest streams the entire local DAG back to peer
// in pre-order (parents before children): a genesis message followed by
// one SynchronizationAddTransactionRequest per remaining node.
func (g *Gossip) handleTangleSynchronizeRequest(peer Peer, payload []byte) error {
	_ = DecodeTangleSynchronizeRequest(payload)
	genesis := g.engine.Genesis()
	peer.Send(prot.MessageTypeSyncGenesisRequest, EncodeSyncGenesisRequest(NewSyncGenesisRequest(genesis.Tx)))
	for _, n := range preOrder(genesis) {
		if n == genesis {
			continue
		}
		m := NewSynchronizationAddTransactionRequest(n.Tx)
		peer.Send(prot.MessageTypeSynchronizationAddTransactionRequest, EncodeSynchronizationAddTransactionRequest(m))
	}
	return nil
}

// preOrder walks the DAG breadth-first from start, visiting every node
// reachable by child links exactly once, parents always before children:
// a child is held back until the last of its parents has been visited.
func preOrder(start *dag.Node) []*dag.Node {
	seen := map[kern.Hash]bool{start.Hash(): true}
	queue := []*dag.Node{start}
	order := []*dag.Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range n.Children() {
			if seen[c.Hash()] {
				continue
			}
			ready := true
			for _, p := range c.Parents() {
				if !seen[p.Hash()] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			seen[c.Hash()] = true
			queue = append(queue, c)
			order = append(order, c)
		}
	}
	return order
}

func (g *Gossip) handleSyncGenesisRequest(peer Peer, payload []byte) error {
	m, err := DecodeSyncGenesisRequest(payload)
	if err != nil {
		return err
	}
	g.mu.Lock()
	listening := g.listeningForGenesis[peer.ID()]
	g.mu.Unlock()
	if !listening {
		return nil
	}
	if err := g.engine.SetGenesis(m.Genesis); err != nil {
		return err
	}
	g.mu.Lock()
	g.listeningForGenesis[peer.ID()] = false
	g.mu.Unlock()
	return nil
}

func (g *Gossip) handleSynchronizationAddTransactionRequest(peer Peer, payload []byte) error {
	m, err := DecodeSynchronizationAddTransactionRequest(payload)
	if err != nil {
		return err
	}
	return g.insert(m.Tx, tangle.AddOptions{SkipBalance: true})
}

func (g *Gossip) handleAddTransactionRequest(peer Peer, payload []byte) error {
	m, err := DecodeAddTransactionRequest(payload)
	if err != nil {
		return err
	}
	return g.insertAndRebroadcast(m.Tx)
}

func (g *Gossip) handleUpdateWeightsRequest(payload []byte) error {
	_ = DecodeUpdateWeightsRequest(payload)
	g.engine.UpdateWeights()
	return nil
}

// Originate adds a locally-constructed transaction to the engine and
// broadcasts it to every connected peer in the same step, mirroring
// handleAddTransactionRequest's insertAndRebroadcast so a transaction
// the local node mines itself enters the network the same way one
// relayed from a peer does. The CLI's transact command goes through
// here, and autofund and autopinger call insertAndRebroadcast directly;
// a transaction added to the engine any other way is never broadcast.
func (g *Gossip) Originate(tx kern.Transaction) error {
	return g.insertAndRebroadcast(tx)
}

// insert applies tx to the engine, queuing it as an orphan instead of
// erroring when its parents aren't resolved yet, and drains the orphan
// queue once on any successful insertion.
func (g *Gossip) insert(tx kern.Transaction, opts tangle.AddOptions) error {
	_, err := g.engine.Add(tx, opts)
	if err == nil {
		metrics.RecordAdded("accepted")
		g.drainOrphans(opts)
		return nil
	}
	if _, ok := err.(kern.NodeNotFoundErr); ok {
		metrics.RecordAdded("orphaned")
		g.orphan.push(tx)
		return nil
	}
	metrics.RecordAdded("rejected")
	return err
}

// insertAndRebroadcast is insert plus forwarding to every connected peer,
// used for live (non-sync) gossip and locally originated transactions.
func (g *Gossip) insertAndRebroadcast(tx kern.Transaction) error {
	if g.engine.Resolves(tx.Hash()) {
		return nil
	}
	_, err := g.engine.Add(tx, tangle.AddOptions{})
	if err != nil {
		if _, ok := err.(kern.NodeNotFoundErr); ok {
			metrics.RecordAdded("orphaned")
			g.orphan.push(tx)
			return nil
		}
		metrics.RecordAdded("rejected")
		return err
	}
	metrics.RecordAdded("accepted")
	g.drainOrphans(tangle.AddOptions{})
	if g.broadcast != nil {
		g.broadcast(prot.MessageTypeAddTransactionRequest, EncodeAddTransactionRequest(NewAddTransactionRequest(tx)))
	}
	g.pinger.observe(tx)
	return nil
}

func (g *Gossip) drainOrphans(opts tangle.AddOptions) {
	g.orphan.drainOnce(func(tx kern.Transaction) (stillOrphan bool) {
		_, err := g.engine.Add(tx, opts)
		if err == nil {
			return false
		}
		_, notFound := err.(kern.NodeNotFoundErr)
		return notFound
	})
}
