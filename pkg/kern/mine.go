package kern

import (
	"time"
)

// Mine searches nonce space for the least nonce producing a hash with at
// least skeleton.MiningDifficulty leading hex-zero nibbles, freezing the
// transaction at that nonce. The skeleton must be fully signed first --
// mining is the last step before a Transaction exists.
//
// cancel is polled once per nonce attempt; a cancellable flag is cheaper
// than a goroutine-per-mine and matches how the rest of this module treats
// cancellation as cooperative. A closed or sent-to cancel channel stops the
// search and returns CancelledErr.
func Mine(skeleton Skeleton, cancel <-chan struct{}) (Transaction, error) {
	if !skeleton.FullySigned() {
		return Transaction{}, InvalidSignatureErr{}
	}
	for nonce := uint64(0); ; nonce++ {
		select {
		case <-cancel:
			return Transaction{}, CancelledErr{}
		default:
		}
		tx := skeleton.freeze(nonce)
		if tx.hash.LeadingHexZeros() >= int(skeleton.MiningDifficulty) {
			return tx, nil
		}
		if nonce == ^uint64(0) {
			return Transaction{}, NotMinedErr{Difficulty: skeleton.MiningDifficulty}
		}
	}
}

// Remine freezes a fully-mined transaction's skeleton again under a fresh
// timestamp, which necessarily changes its hash and its nonce search --
// used to show that mining the same payload twice yields distinct hashes.
func Remine(skeleton Skeleton, timestamp time.Time, cancel <-chan struct{}) (Transaction, error) {
	skeleton.Timestamp = timestamp
	return Mine(skeleton, cancel)
}
