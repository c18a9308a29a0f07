// Package gossip implements the gossip protocol: the message taxonomy,
// per-type listeners, orphan queue, initial full-DAG synchronization,
// and the peer public-key directory.
package gossip

import (
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/xcrypto"
	"github.com/duskcoin/tangled/pkg/xhash"
)

// Every message in the taxonomy carries a ValidityHash that must equal the
// recomputed hash of its payload after deserialization; a mismatch fails
// with kern.InvalidHashErr and the message is dropped.
type validated interface {
	recomputeHash() kern.Hash
	claimedHash() kern.Hash
}

func checkValidity(m validated) error {
	recomputed := m.recomputeHash()
	claimed := m.claimedHash()
	if recomputed != claimed {
		return kern.InvalidHashErr{Expected: claimed, Actual: recomputed}
	}
	return nil
}

// PublicKeySyncRequest asks every peer to announce their public key.
type PublicKeySyncRequest struct{}

func EncodePublicKeySyncRequest(PublicKeySyncRequest) []byte { return nil }

func DecodePublicKeySyncRequest([]byte) PublicKeySyncRequest { return PublicKeySyncRequest{} }

// PublicKeySyncResponse announces the sender's public key so recipients
// can record it in their key directory.
type PublicKeySyncResponse struct {
	PK           xcrypto.PublicKey
	ValidityHash kern.Hash
}

func NewPublicKeySyncResponse(pk xcrypto.PublicKey) PublicKeySyncResponse {
	m := PublicKeySyncResponse{PK: pk}
	m.ValidityHash = m.recomputeHash()
	return m
}

func (m PublicKeySyncResponse) recomputeHash() kern.Hash { return xhash.OfBytes(m.PK.DER()) }
func (m PublicKeySyncResponse) claimedHash() kern.Hash   { return m.ValidityHash }

func EncodePublicKeySyncResponse(m PublicKeySyncResponse) []byte {
	e := xhash.NewEncoder()
	e.Hash(m.ValidityHash)
	e.Bytes(m.PK.DER())
	return e.Encoded()
}

func DecodePublicKeySyncResponse(raw []byte) (PublicKeySyncResponse, error) {
	var out PublicKeySyncResponse
	err := xhash.DecodeRecover(raw, func(d *xhash.Decoder) {
		out.ValidityHash = d.Hash()
		pk, err := xcrypto.PublicKeyFromDER(d.Bytes())
		if err != nil {
			panic(err)
		}
		out.PK = pk
	})
	if err != nil {
		return PublicKeySyncResponse{}, err
	}
	return out, checkValidity(out)
}

// TangleSynchronizeRequest asks the recipient to stream its entire DAG
// back to the sender. The sender is expected to enter a "listening for
// genesis" state until a SyncGenesisRequest arrives.
type TangleSynchronizeRequest struct{}

func EncodeTangleSynchronizeRequest(TangleSynchronizeRequest) []byte { return nil }

func DecodeTangleSynchronizeRequest([]byte) TangleSynchronizeRequest {
	return TangleSynchronizeRequest{}
}

// SyncGenesisRequest replaces the recipient's genesis, iff the recipient
// is in the listening-for-genesis state.
type SyncGenesisRequest struct {
	Genesis      kern.Transaction
	ValidityHash kern.Hash
}

func NewSyncGenesisRequest(genesis kern.Transaction) SyncGenesisRequest {
	return SyncGenesisRequest{Genesis: genesis, ValidityHash: genesis.Hash()}
}

func (m SyncGenesisRequest) recomputeHash() kern.Hash {
	return xhash.OfBytes(m.Genesis.EncodeSigned())
}
func (m SyncGenesisRequest) claimedHash() kern.Hash { return m.ValidityHash }

func EncodeSyncGenesisRequest(m SyncGenesisRequest) []byte {
	e := xhash.NewEncoder()
	e.Hash(m.ValidityHash)
	e.Bytes(m.Genesis.EncodeSigned())
	return e.Encoded()
}

func DecodeSyncGenesisRequest(raw []byte) (SyncGenesisRequest, error) {
	var out SyncGenesisRequest
	err := xhash.DecodeRecover(raw, func(d *xhash.Decoder) {
		out.ValidityHash = d.Hash()
		tx, err := kern.DecodeTransaction(d.Bytes())
		if err != nil {
			panic(err)
		}
		out.Genesis = tx
	})
	if err != nil {
		return SyncGenesisRequest{}, err
	}
	return out, checkValidity(out)
}

// AddTransactionRequest is normal live gossip: publish one transaction to
// every peer.
type AddTransactionRequest struct {
	Tx           kern.Transaction
	ValidityHash kern.Hash
}

func NewAddTransactionRequest(tx kern.Transaction) AddTransactionRequest {
	return AddTransactionRequest{Tx: tx, ValidityHash: tx.Hash()}
}

func (m AddTransactionRequest) recomputeHash() kern.Hash {
	return xhash.OfBytes(m.Tx.EncodeSigned())
}
func (m AddTransactionRequest) claimedHash() kern.Hash { return m.ValidityHash }

func EncodeAddTransactionRequest(m AddTransactionRequest) []byte {
	e := xhash.NewEncoder()
	e.Hash(m.ValidityHash)
	e.Bytes(m.Tx.EncodeSigned())
	return e.Encoded()
}

func DecodeAddTransactionRequest(raw []byte) (AddTransactionRequest, error) {
	var out AddTransactionRequest
	err := xhash.DecodeRecover(raw, func(d *xhash.Decoder) {
		out.ValidityHash = d.Hash()
		tx, err := kern.DecodeTransaction(d.Bytes())
		if err != nil {
			panic(err)
		}
		out.Tx = tx
	})
	if err != nil {
		return AddTransactionRequest{}, err
	}
	return out, checkValidity(out)
}

// SynchronizationAddTransactionRequest carries the same payload as
// AddTransactionRequest but is handled with relaxed, balance-check-free
// validation because it arrives as part of initial bulk sync.
type SynchronizationAddTransactionRequest AddTransactionRequest

func NewSynchronizationAddTransactionRequest(tx kern.Transaction) SynchronizationAddTransactionRequest {
	return SynchronizationAddTransactionRequest(NewAddTransactionRequest(tx))
}

func EncodeSynchronizationAddTransactionRequest(m SynchronizationAddTransactionRequest) []byte {
	return EncodeAddTransactionRequest(AddTransactionRequest(m))
}

func DecodeSynchronizationAddTransactionRequest(raw []byte) (SynchronizationAddTransactionRequest, error) {
	m, err := DecodeAddTransactionRequest(raw)
	return SynchronizationAddTransactionRequest(m), err
}

// UpdateWeightsRequest forces a full cumulative-weight recomputation pass.
type UpdateWeightsRequest struct{}

func EncodeUpdateWeightsRequest(UpdateWeightsRequest) []byte { return nil }

func DecodeUpdateWeightsRequest([]byte) UpdateWeightsRequest { return UpdateWeightsRequest{} }
