package kern

import (
	"github.com/duskcoin/tangled/pkg/xcrypto"
	"github.com/duskcoin/tangled/pkg/xhash"
)

// ParentResolver is the narrow slice of tangle-engine behavior the
// validation pipeline needs: whether a hash resolves in the DAG. It lets
// this package validate parents without importing the engine.
type ParentResolver interface {
	Resolves(hash Hash) bool
}

// ValidateMined checks that tx.Hash begins with at least
// tx.MiningDifficulty hex zeros and equals the recomputed hash of its
// canonical encoding.
func ValidateMined(tx Transaction) error {
	recomputed := xhash.OfBytes(tx.EncodeSigned())
	if recomputed != tx.hash {
		return InvalidHashErr{Expected: recomputed, Actual: tx.hash}
	}
	if tx.hash.LeadingHexZeros() < int(tx.MiningDifficulty) {
		return NotMinedErr{Difficulty: tx.MiningDifficulty}
	}
	return nil
}

// ValidateSignatures checks that every input's signature verifies under
// its declared account over the unsigned encoding.
func ValidateSignatures(tx Transaction) error {
	digest := xhash.OfBytes(tx.EncodeUnsigned()).Bytes()
	for _, in := range tx.Inputs {
		ok, err := xcrypto.Verify(in.Account, digest, in.Signature)
		if err != nil || !ok {
			return InvalidSignatureErr{Account: in.Account.Hash()}
		}
	}
	return nil
}

// ValidateTotals checks that the sum of inputs is at least the sum of
// outputs; surplus is burned, not refunded.
func ValidateTotals(tx Transaction) error {
	if tx.InputsTotal() < tx.OutputsTotal() {
		return InvalidTotalsErr{}
	}
	return nil
}

// ValidateParents checks that a non-genesis transaction declares at least
// one parent and that every declared parent hash resolves in the DAG.
func ValidateParents(tx Transaction, resolver ParentResolver) error {
	if !tx.IsGenesis() && len(tx.ParentHashes) == 0 {
		return NodeNotFoundErr{Hash: xhash.Invalid}
	}
	for _, p := range tx.ParentHashes {
		if !resolver.Resolves(p) {
			return NodeNotFoundErr{Hash: p}
		}
	}
	return nil
}

// ValidateSkeleton runs every structural check that doesn't require
// holding the engine mutex: mined-ness, signatures, totals, and parent
// resolution. It intentionally excludes the balance check, which is
// tangle-level and must run with the mutex held (see internal/tangle).
func ValidateSkeleton(tx Transaction, resolver ParentResolver) error {
	if err := ValidateMined(tx); err != nil {
		return err
	}
	if err := ValidateSignatures(tx); err != nil {
		return err
	}
	if err := ValidateTotals(tx); err != nil {
		return err
	}
	if err := ValidateParents(tx, resolver); err != nil {
		return err
	}
	return nil
}
