package kern

import "fmt"

// InvalidHashErr is raised when a claimed hash does not match the
// recomputed hash of its payload, whether that payload is a Transaction or
// a gossip message.
type InvalidHashErr struct {
	Expected Hash
	Actual   Hash
}

func (e InvalidHashErr) Error() string {
	return fmt.Sprintf("invalid hash: expected %s, got %s", e.Expected, e.Actual)
}

// InvalidSignatureErr is raised when an input's signature does not verify
// under its declared account.
type InvalidSignatureErr struct {
	Account Hash
}

func (e InvalidSignatureErr) Error() string {
	return fmt.Sprintf("invalid signature for account %s", e.Account)
}

// InvalidTotalsErr is raised when a transaction's inputs sum to less than
// its outputs.
type InvalidTotalsErr struct{}

func (e InvalidTotalsErr) Error() string {
	return "invalid totals: inputs less than outputs"
}

// NotMinedErr is raised when a transaction's hash does not satisfy its
// claimed mining difficulty.
type NotMinedErr struct {
	Difficulty uint8
}

func (e NotMinedErr) Error() string {
	return fmt.Sprintf("not mined: hash does not satisfy difficulty %d", e.Difficulty)
}

// NodeNotFoundErr is raised when a referenced node hash does not resolve.
type NodeNotFoundErr struct {
	Hash Hash
}

func (e NodeNotFoundErr) Error() string {
	return fmt.Sprintf("node not found: %s", e.Hash)
}

// NotATipErr is raised by removeTip on a node that still has children.
type NotATipErr struct {
	Hash Hash
}

func (e NotATipErr) Error() string {
	return fmt.Sprintf("not a tip: %s", e.Hash)
}

// InvalidBalanceErr is raised when a running balance would go negative
// while walking the graph.
type InvalidBalanceErr struct {
	Node    Hash
	Account Hash
	Balance float64
}

func (e InvalidBalanceErr) Error() string {
	return fmt.Sprintf(
		"invalid balance: account %s would go to %f at node %s",
		e.Account, e.Balance, e.Node,
	)
}

// InvalidAccountErr is raised when an unknown public-key hash is requested
// as an output target at transaction construction time.
type InvalidAccountErr struct {
	Hash Hash
}

func (e InvalidAccountErr) Error() string {
	return fmt.Sprintf("invalid account: unknown public key hash %s", e.Hash)
}

// CancelledErr is raised when mining or a blocking sync is interrupted.
type CancelledErr struct{}

func (e CancelledErr) Error() string {
	return "cancelled"
}
