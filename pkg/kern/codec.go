package kern

import (
	"time"

	"github.com/duskcoin/tangled/pkg/xcrypto"
	"github.com/duskcoin/tangled/pkg/xhash"
)

// DecodeTransaction parses the bytes produced by Transaction.EncodeSigned
// back into a Transaction, recomputing its hash. Used by persistence and
// by gossip message decoding.
func DecodeTransaction(raw []byte) (tx Transaction, err error) {
	err = xhash.DecodeRecover(raw, func(d *xhash.Decoder) {
		tx.ParentHashes = d.Hashes()

		nInputs := d.Uint32()
		tx.Inputs = make([]Input, nInputs)
		for i := range tx.Inputs {
			tx.Inputs[i] = decodeInput(d)
		}

		nOutputs := d.Uint32()
		tx.Outputs = make([]Output, nOutputs)
		for i := range tx.Outputs {
			tx.Outputs[i] = decodeOutput(d)
		}

		tx.MiningDifficulty = d.Uint8()
		tx.Nonce = d.Uint64()
		tx.Timestamp = time.Unix(0, int64(d.Uint64()))
	})
	if err != nil {
		return Transaction{}, err
	}
	tx.hash = xhash.OfBytes(raw)
	return tx, nil
}

func decodeInput(d *xhash.Decoder) Input {
	pub, err := xcrypto.PublicKeyFromDER(d.Bytes())
	if err != nil {
		panic(err)
	}
	amount := d.Float64()
	sig := xcrypto.SignatureFromDER(d.Bytes())
	return Input{Account: pub, Amount: amount, Signature: sig}
}

func decodeOutput(d *xhash.Decoder) Output {
	pub, err := xcrypto.PublicKeyFromDER(d.Bytes())
	if err != nil {
		panic(err)
	}
	amount := d.Float64()
	return Output{Account: pub, Amount: amount}
}
