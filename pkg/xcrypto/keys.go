package xcrypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/duskcoin/tangled/pkg/xhash"
)

// A public key, stored as the uncompressed elliptic.Marshal encoding of its
// point so it can be hashed, compared, and sent over the wire without
// re-marshaling. crypto/x509's PKIX marshaling only knows the NIST named
// curves, not secp256k1, so keys are marshaled the way
// mosaicnetworks/babble's crypto/keys package does: raw point bytes via
// elliptic.Marshal/Unmarshal instead of ASN.1.
type PublicKey struct {
	point []byte
}

// A private key. Wraps the stdlib ecdsa type; never serialized directly
// onto the wire (see internal/keystore for on-disk persistence).
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// A matched public/private pair.
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}

// Generate a new keypair over Curve().
func GenerateKeyPair() (KeyPair, error) {
	priv, err := ecdsa.GenerateKey(Curve(), rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Public: publicKeyFromPriv(priv), Private: PrivateKey{key: priv}}, nil
}

func publicKeyFromPriv(priv *ecdsa.PrivateKey) PublicKey {
	return PublicKey{point: elliptic.Marshal(Curve(), priv.PublicKey.X, priv.PublicKey.Y)}
}

// Validate checks that the public and private halves of the pair
// correspond.
func (kp KeyPair) Validate() error {
	if !publicKeyFromPriv(kp.Private.key).Eq(kp.Public) {
		return fmt.Errorf("xcrypto: public key does not correspond to private key")
	}
	return nil
}

// Raw uncompressed point bytes of the public key, as written by
// elliptic.Marshal.
func (pk PublicKey) DER() []byte {
	out := make([]byte, len(pk.point))
	copy(out, pk.point)
	return out
}

// Parse a public key from its elliptic.Marshal encoding.
func PublicKeyFromDER(der []byte) (PublicKey, error) {
	x, _ := elliptic.Unmarshal(Curve(), der)
	if x == nil {
		return PublicKey{}, fmt.Errorf("xcrypto: could not unmarshal public key point")
	}
	point := make([]byte, len(der))
	copy(point, der)
	return PublicKey{point: point}, nil
}

func (pk PublicKey) ecdsa() (*ecdsa.PublicKey, error) {
	x, y := elliptic.Unmarshal(Curve(), pk.point)
	if x == nil {
		return nil, fmt.Errorf("xcrypto: could not unmarshal public key point")
	}
	return &ecdsa.PublicKey{Curve: Curve(), X: x, Y: y}, nil
}

func (pk PublicKey) Eq(other PublicKey) bool {
	if len(pk.point) != len(other.point) {
		return false
	}
	for i := range pk.point {
		if pk.point[i] != other.point[i] {
			return false
		}
	}
	return true
}

// Hash is the canonical account identifier: the hash of the marshaled
// public key point.
func (pk PublicKey) Hash() xhash.Hash {
	return xhash.OfBytes(pk.point)
}

func (pk PublicKey) String() string {
	return pk.Hash().String()
}

// Raw big-endian D bytes of the private key, padded to the curve's byte
// width, the way babble's DumpPrivateKey does it. Only used by
// internal/keystore; the core never serializes a private key onto the wire.
func (priv PrivateKey) DER() ([]byte, error) {
	return paddedBigBytes(priv.key.D, (priv.key.Params().BitSize+7)/8), nil
}

// Parse a private key from its raw big-endian D bytes.
func PrivateKeyFromDER(der []byte) (PrivateKey, error) {
	key := new(ecdsa.PrivateKey)
	key.PublicKey.Curve = Curve()
	key.D = new(big.Int).SetBytes(der)
	if key.D.Sign() <= 0 || key.D.Cmp(key.Curve.Params().N) >= 0 {
		return PrivateKey{}, fmt.Errorf("xcrypto: invalid private key scalar")
	}
	key.PublicKey.X, key.PublicKey.Y = key.Curve.ScalarBaseMult(der)
	if key.PublicKey.X == nil {
		return PrivateKey{}, fmt.Errorf("xcrypto: invalid private key")
	}
	return PrivateKey{key: key}, nil
}

// paddedBigBytes encodes a big integer as big-endian bytes, left-padded
// with zeros to at least n bytes.
func paddedBigBytes(bigint *big.Int, n int) []byte {
	b := bigint.Bytes()
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

// Public derives the PublicKey half of a raw private key, for use once a
// PrivateKey has been loaded from a keystore without its paired PublicKey.
func (priv PrivateKey) Public() (PublicKey, error) {
	return publicKeyFromPriv(priv.key), nil
}
