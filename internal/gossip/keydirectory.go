package gossip

import (
	"github.com/duskcoin/tangled/pkg/util"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

// keyDirectory maps peer-id (the transport's runtime id, not an account
// hash) to the public key that peer announced over
// PublicKeySyncResponse. The core never outputs to an unknown account at
// transaction-construction time, but inserted transactions referencing an
// unknown output are still accepted -- this directory is purely an aid
// for the local agent composing new transactions, not an insertion gate.
type keyDirectory struct {
	keys *util.SyncMap[string, xcrypto.PublicKey]
}

func newKeyDirectory() *keyDirectory {
	return &keyDirectory{keys: util.NewSyncMap[string, xcrypto.PublicKey]()}
}

func (d *keyDirectory) record(peerID string, pk xcrypto.PublicKey) {
	d.keys.Store(peerID, pk)
}

func (d *keyDirectory) lookup(peerID string) (xcrypto.PublicKey, bool) {
	return d.keys.Get(peerID)
}

// known reports whether any peer has announced the given account.
func (d *keyDirectory) known(account xcrypto.PublicKey) bool {
	target := account.Hash()
	found := false
	d.keys.Range(func(_ string, pk xcrypto.PublicKey) bool {
		if pk.Hash() == target {
			found = true
			return false
		}
		return true
	})
	return found
}

// All returns a snapshot of every peer-id -> PublicKey pair currently
// known.
func (d *keyDirectory) All() map[string]xcrypto.PublicKey {
	out := map[string]xcrypto.PublicKey{}
	d.keys.Range(func(peerID string, pk xcrypto.PublicKey) bool {
		out[peerID] = pk
		return true
	})
	return out
}
