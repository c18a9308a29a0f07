// Package keystore loads and saves the node's identity keypair as the raw
// big-endian private scalar (the bytes of xcrypto's PrivateKey.DER, not
// an ASN.1 DER structure), compressed with a general-purpose deflate
// stream.
package keystore

import (
	"bytes"
	"compress/flate"
	"io"
	"os"

	"github.com/duskcoin/tangled/pkg/xcrypto"
)

// Save writes kp's private key to path as its PrivateKey.DER bytes (the raw
// scalar) compressed with flate.
func Save(path string, kp xcrypto.KeyPair) error {
	der, err := kp.Private.DER()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return err
	}
	if _, err := w.Write(der); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// Load reads a keypair previously written by Save. If path does not exist,
// a fresh keypair is generated and persisted at path before being returned,
// matching the CLI's "no key yet" onboarding path.
func Load(path string) (xcrypto.KeyPair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			kp, err := xcrypto.GenerateKeyPair()
			if err != nil {
				return xcrypto.KeyPair{}, err
			}
			if err := Save(path, kp); err != nil {
				return xcrypto.KeyPair{}, err
			}
			return kp, nil
		}
		return xcrypto.KeyPair{}, err
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	der, err := io.ReadAll(r)
	if err != nil {
		return xcrypto.KeyPair{}, err
	}
	priv, err := xcrypto.PrivateKeyFromDER(der)
	if err != nil {
		return xcrypto.KeyPair{}, err
	}
	pub, err := priv.Public()
	if err != nil {
		return xcrypto.KeyPair{}, err
	}
	kp := xcrypto.KeyPair{Private: priv, Public: pub}
	return kp, kp.Validate()
}
