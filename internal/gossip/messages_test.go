package gossip_test

import (
	"testing"
	"time"

	"github.com/duskcoin/tangled/internal/gossip"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/util"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

func mustMineTx(t *testing.T, skel kern.Skeleton) kern.Transaction {
	tx, err := kern.Mine(skel, nil)
	util.AssertNoErr(t, err)
	return tx
}

func TestPublicKeySyncResponseRoundTrip(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	out := gossip.NewPublicKeySyncResponse(kp.Public)
	raw := gossip.EncodePublicKeySyncResponse(out)
	back, err := gossip.DecodePublicKeySyncResponse(raw)
	util.AssertNoErr(t, err)
	util.Assert(t, back.PK.Hash() == kp.Public.Hash(), "decoded public key should match original")
}

func TestPublicKeySyncResponseRejectsTamperedPayload(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	other, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	out := gossip.NewPublicKeySyncResponse(kp.Public)
	raw := gossip.EncodePublicKeySyncResponse(out)

	tampered := gossip.NewPublicKeySyncResponse(other.Public)
	tampered.ValidityHash = out.ValidityHash
	rawTampered := gossip.EncodePublicKeySyncResponse(tampered)
	_ = raw

	_, err = gossip.DecodePublicKeySyncResponse(rawTampered)
	util.Assert(t, err != nil, "a payload whose recomputed hash disagrees with its claimed ValidityHash must be rejected")
}

func TestSyncGenesisRequestRoundTrip(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	genesis := mustMineTx(t, kern.Skeleton{
		Outputs:   []kern.Output{{Account: kp.Public, Amount: 1e9}},
		Timestamp: time.Unix(0, 0),
	})

	out := gossip.NewSyncGenesisRequest(genesis)
	raw := gossip.EncodeSyncGenesisRequest(out)
	back, err := gossip.DecodeSyncGenesisRequest(raw)
	util.AssertNoErr(t, err)
	util.Assert(t, back.Genesis.Hash() == genesis.Hash(), "decoded genesis should match original")
}

func TestAddTransactionRequestRoundTrip(t *testing.T) {
	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)

	genesis := mustMineTx(t, kern.Skeleton{
		Outputs:   []kern.Output{{Account: kp.Public, Amount: 1e9}},
		Timestamp: time.Unix(0, 0),
	})

	skel := kern.Skeleton{
		ParentHashes: []kern.Hash{genesis.Hash()},
		Inputs:       []kern.Input{{Account: kp.Public, Amount: 5}},
		Outputs:      []kern.Output{{Account: kp.Public, Amount: 5}},
		Timestamp:    time.Unix(1, 0),
	}
	util.AssertNoErr(t, skel.SignInput(0, kp.Private))
	tx := mustMineTx(t, skel)

	out := gossip.NewAddTransactionRequest(tx)
	raw := gossip.EncodeAddTransactionRequest(out)
	back, err := gossip.DecodeAddTransactionRequest(raw)
	util.AssertNoErr(t, err)
	util.Assert(t, back.Tx.Hash() == tx.Hash(), "decoded transaction should match original")

	// SynchronizationAddTransactionRequest shares the same wire shape.
	syncOut := gossip.NewSynchronizationAddTransactionRequest(tx)
	syncRaw := gossip.EncodeSynchronizationAddTransactionRequest(syncOut)
	syncBack, err := gossip.DecodeSynchronizationAddTransactionRequest(syncRaw)
	util.AssertNoErr(t, err)
	util.Assert(t, syncBack.Tx.Hash() == tx.Hash(), "sync variant should decode to the same transaction")
}

func TestEmptyRequestsRoundTrip(t *testing.T) {
	util.Assert(t, gossip.DecodePublicKeySyncRequest(gossip.EncodePublicKeySyncRequest(gossip.PublicKeySyncRequest{})) == gossip.PublicKeySyncRequest{},
		"PublicKeySyncRequest has no payload, decode should return the zero value")
	util.Assert(t, gossip.DecodeTangleSynchronizeRequest(gossip.EncodeTangleSynchronizeRequest(gossip.TangleSynchronizeRequest{})) == gossip.TangleSynchronizeRequest{},
		"TangleSynchronizeRequest has no payload, decode should return the zero value")
	util.Assert(t, gossip.DecodeUpdateWeightsRequest(gossip.EncodeUpdateWeightsRequest(gossip.UpdateWeightsRequest{})) == gossip.UpdateWeightsRequest{},
		"UpdateWeightsRequest has no payload, decode should return the zero value")
}
