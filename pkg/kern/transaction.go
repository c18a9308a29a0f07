// Package kern implements the transaction kernel: the immutable
// Transaction record, its canonical encoding, signing, mining, and
// validation pipeline. It has no knowledge of the DAG it will eventually
// be attached to.
package kern

import (
	"time"

	"github.com/duskcoin/tangled/pkg/xcrypto"
	"github.com/duskcoin/tangled/pkg/xhash"
)

type Hash = xhash.Hash
type PublicKey = xcrypto.PublicKey
type PrivateKey = xcrypto.PrivateKey
type KeyPair = xcrypto.KeyPair

// An input spends some amount of an account's balance into this
// transaction. Signature covers the canonical encoding of the owning
// transaction with every input's signature field omitted.
type Input struct {
	Account   PublicKey
	Amount    float64
	Signature xcrypto.Signature
}

// An output credits some amount of balance to an account.
type Output struct {
	Account PublicKey
	Amount  float64
}

// A Transaction is immutable once mined: every field below is fixed at
// construction and the Hash covers all of them.
type Transaction struct {
	ParentHashes     []Hash
	Inputs           []Input
	Outputs          []Output
	MiningDifficulty uint8
	Nonce            uint64
	Timestamp        time.Time

	hash Hash
}

// IsGenesis reports whether this transaction has no parents, the sole
// condition under which ParentHashes is allowed to be empty.
func (tx Transaction) IsGenesis() bool {
	return len(tx.ParentHashes) == 0
}

// Hash returns the transaction's canonical hash, computed once at
// construction (via Mine or Freeze) and cached thereafter.
func (tx Transaction) Hash() Hash {
	return tx.hash
}

func (tx Transaction) InputsTotal() float64 {
	total := 0.0
	for _, in := range tx.Inputs {
		total += in.Amount
	}
	return total
}

func (tx Transaction) OutputsTotal() float64 {
	total := 0.0
	for _, out := range tx.Outputs {
		total += out.Amount
	}
	return total
}

// encodeInput writes one input's hashing material. If withSignature is
// false, the signature field is omitted -- this is the encoding that gets
// signed and that signatures verify against.
func encodeInput(e *xhash.Encoder, in Input, withSignature bool) {
	e.Bytes(in.Account.DER())
	e.Float64(in.Amount)
	if withSignature {
		e.Bytes(in.Signature.DER())
	}
}

func encodeOutput(e *xhash.Encoder, out Output) {
	e.Bytes(out.Account.DER())
	e.Float64(out.Amount)
}

// encode builds the canonical encoding of the transaction. withSignatures
// controls whether each input's signature field is included; the unsigned
// form (withSignatures = false) is both what gets signed and what the
// final Hash covers are built from after signatures are attached, since
// the Hash itself is defined over the fully-signed encoding.
func (tx Transaction) encode(withSignatures bool) []byte {
	e := xhash.NewEncoder()
	e.Hashes(tx.ParentHashes)
	e.Uint32(uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		encodeInput(e, in, withSignatures)
	}
	e.Uint32(uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		encodeOutput(e, out)
	}
	e.Uint8(tx.MiningDifficulty)
	e.Uint64(tx.Nonce)
	e.Uint64(uint64(tx.Timestamp.UnixNano()))
	return e.Encoded()
}

// EncodeSigned returns the fully-signed canonical encoding, the same
// bytes whose hash becomes the transaction's Hash.
func (tx Transaction) EncodeSigned() []byte {
	return tx.encode(true)
}

// EncodeUnsigned returns the canonical encoding with every input
// signature omitted -- what gets signed, and what signatures verify
// against.
func (tx Transaction) EncodeUnsigned() []byte {
	return tx.encode(false)
}

// Skeleton is an unsigned, unmined transaction under construction.
type Skeleton struct {
	ParentHashes     []Hash
	Inputs           []Input
	Outputs          []Output
	MiningDifficulty uint8
	Timestamp        time.Time
}

// SignInput signs a single input of the skeleton in place, given the
// private key corresponding to that input's declared account.
func (s *Skeleton) SignInput(i int, priv PrivateKey) error {
	if i < 0 || i >= len(s.Inputs) {
		panic("SignInput: index out of range")
	}
	tmp := Transaction{
		ParentHashes:     s.ParentHashes,
		Inputs:           s.Inputs,
		Outputs:          s.Outputs,
		MiningDifficulty: s.MiningDifficulty,
		Timestamp:        s.Timestamp,
	}
	digest := xhash.OfBytes(tmp.EncodeUnsigned()).Bytes()
	sig, err := xcrypto.Sign(priv, digest)
	if err != nil {
		return err
	}
	s.Inputs[i].Signature = sig
	return nil
}

// FullySigned reports whether every input carries a non-empty signature.
func (s Skeleton) FullySigned() bool {
	for _, in := range s.Inputs {
		if len(in.Signature.DER()) == 0 {
			return false
		}
	}
	return true
}

func (s Skeleton) freeze(nonce uint64) Transaction {
	tx := Transaction{
		ParentHashes:     s.ParentHashes,
		Inputs:           s.Inputs,
		Outputs:          s.Outputs,
		MiningDifficulty: s.MiningDifficulty,
		Nonce:            nonce,
		Timestamp:        s.Timestamp,
	}
	tx.hash = xhash.OfBytes(tx.EncodeSigned())
	return tx
}
