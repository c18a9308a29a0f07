// Package xcrypto implements the cryptographic suite the tangle core
// depends on: keypair generation, signing, verification, and key
// (de)serialization.
package xcrypto

import (
	"crypto/elliptic"

	"github.com/btcsuite/btcd/btcec"
)

// Curve returns the elliptic curve backing every keypair in this module.
//
// secp160r1 has no maintained Go implementation available, so this uses
// secp256k1 via btcsuite's implementation instead, the same substitution
// mosaicnetworks/babble makes for its own ECDSA keys
// (src/crypto/keys/curve.go). See DESIGN.md for the full writeup.
func Curve() elliptic.Curve {
	return btcec.S256()
}
