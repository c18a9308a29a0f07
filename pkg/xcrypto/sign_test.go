package xcrypto

import (
	"testing"

	"github.com/duskcoin/tangled/pkg/xhash"
)

func TestGenerateKeyPairValidates(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	if err := kp.Validate(); err != nil {
		t.Fatalf("freshly generated keypair failed validation: %v", err)
	}
}

func TestKeyPairValidateRejectsMismatch(t *testing.T) {
	kp1, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	kp2, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	mismatched := KeyPair{Public: kp1.Public, Private: kp2.Private}
	if err := mismatched.Validate(); err == nil {
		t.Fatal("expected validation error for mismatched keypair")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	digest := xhash.OfBytes([]byte("hello tangle")).Bytes()
	sig, err := Sign(kp.Private, digest)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify(kp.Public, digest, sig)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	other, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	digest := xhash.OfBytes([]byte("hello tangle")).Bytes()
	sig, err := Sign(kp.Private, digest)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify(other.Public, digest, sig)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected signature verification to fail for wrong key")
	}
}

func TestPublicKeyDERRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	der := kp.Public.DER()
	parsed, err := PublicKeyFromDER(der)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Eq(kp.Public) {
		t.Fatal("round-tripped public key does not match original")
	}
	if parsed.Hash() != kp.Public.Hash() {
		t.Fatal("round-tripped public key hash does not match original")
	}
}

func TestPrivateKeyDERRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	der, err := kp.Private.DER()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := PrivateKeyFromDER(der)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := parsed.Public()
	if err != nil {
		t.Fatal(err)
	}
	if !pub.Eq(kp.Public) {
		t.Fatal("round-tripped private key does not derive the same public key")
	}
}
