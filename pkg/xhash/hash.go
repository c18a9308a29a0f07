// Package xhash provides the fixed-width hash type used throughout the
// tangle: transaction hashes, node hashes, and gossip message validity
// hashes all share this type.
package xhash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Size of a Hash in bytes (SHA2-256 digest size).
const Size = 32

// A fixed-width hash value. Was long just a type alias for [32]byte, but
// giving it methods makes life easier.
type Hash struct {
	data [Size]byte
}

// The sentinel value used when no real hash is available yet.
var Invalid = Hash{}

// Generate a new random hash. Used for tests and example data.
func NewRand() Hash {
	bytes := make([]byte, Size)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	out := Hash{}
	copy(out.data[:], bytes)
	return out
}

// Parse a hash from its hex encoding.
func FromString(data string) (Hash, error) {
	if len(data) != Size*2 {
		return Hash{}, fmt.Errorf("cannot parse hash from length %d", len(data))
	}
	decoded, err := hex.DecodeString(data)
	if err != nil {
		return Hash{}, err
	}
	out := Hash{}
	copy(out.data[:], decoded)
	return out, nil
}

// Parse a hash from its hex encoding, panic on failure.
// Only meant for hardcoded hash values.
func FromStringAssert(data string) Hash {
	hash, err := FromString(data)
	if err != nil {
		panic(err)
	}
	return hash
}

// Build a hash directly from 32 raw bytes, panic if the length is wrong.
func FromBytes(data []byte) Hash {
	if len(data) != Size {
		panic(fmt.Sprintf("cannot create hash from %d bytes", len(data)))
	}
	out := Hash{}
	copy(out.data[:], data)
	return out
}

// Retrieve the raw bytes backing this hash.
func (h Hash) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h.data[:])
	return out
}

// Render as a lowercase hex string.
func (h Hash) String() string {
	return fmt.Sprintf("%x", h.data)
}

// Count the leading hex-zero nibbles of this hash, used to check mining
// difficulty was satisfied.
func (h Hash) LeadingHexZeros() int {
	s := h.String()
	n := 0
	for n < len(s) && s[n] == '0' {
		n++
	}
	return n
}

func (h Hash) Eq(other Hash) bool {
	return h.data == other.data
}

func (h Hash) IsInvalid() bool {
	return h.Eq(Invalid)
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := FromString(v)
	if err != nil {
		return err
	}
	h.data = parsed.data
	return nil
}

// Any object that knows how to compute its own canonical Hash.
type Hasher interface {
	Hash() Hash
}

// Hash a raw byte slice.
func OfBytes(content []byte) Hash {
	return Hash{data: sha256.Sum256(content)}
}

// Hash the concatenation of several already-hashed items, in order. Used to
// combine a sequence of fields or sub-hashes into one parent hash.
func OfHashes(items []Hash) Hash {
	concat := make([]byte, 0, len(items)*Size)
	for _, item := range items {
		concat = append(concat, item.data[:]...)
	}
	return OfBytes(concat)
}
