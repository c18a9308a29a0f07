package xcrypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
)

// A detached ECDSA signature, ASN.1/DER encoded.
type Signature struct {
	der []byte
}

func (s Signature) DER() []byte {
	out := make([]byte, len(s.der))
	copy(out, s.der)
	return out
}

func SignatureFromDER(der []byte) Signature {
	out := make([]byte, len(der))
	copy(out, der)
	return Signature{der: out}
}

// Sign a digest with the private half of a keypair. digest is expected to
// already be the output of a xhash.Hash, not raw message bytes.
func Sign(priv PrivateKey, digest []byte) (Signature, error) {
	der, err := ecdsa.SignASN1(rand.Reader, priv.key, digest)
	if err != nil {
		return Signature{}, err
	}
	return Signature{der: der}, nil
}

// Verify a signature against a digest and the purported signer's public
// key. Returns false (never an error) on a bad signature; an error return
// means the public key itself could not be parsed.
func Verify(pub PublicKey, digest []byte, sig Signature) (bool, error) {
	ecdsaPub, err := pub.ecdsa()
	if err != nil {
		return false, fmt.Errorf("xcrypto: could not parse public key for verification: %w", err)
	}
	return ecdsa.VerifyASN1(ecdsaPub, digest, sig.der), nil
}
