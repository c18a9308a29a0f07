package keystore_test

import (
	"path/filepath"
	"testing"

	"github.com/duskcoin/tangled/internal/keystore"
	"github.com/duskcoin/tangled/pkg/util"
	"github.com/duskcoin/tangled/pkg/xcrypto"
)

func TestLoadGeneratesAndPersistsOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.key")

	kp, err := keystore.Load(path)
	util.AssertNoErr(t, err)
	util.AssertNoErr(t, kp.Validate())

	reloaded, err := keystore.Load(path)
	util.AssertNoErr(t, err)
	util.Assert(t, reloaded.Public.Hash() == kp.Public.Hash(), "reloading the persisted key should yield the same identity")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.key")

	kp, err := xcrypto.GenerateKeyPair()
	util.AssertNoErr(t, err)
	util.AssertNoErr(t, keystore.Save(path, kp))

	loaded, err := keystore.Load(path)
	util.AssertNoErr(t, err)
	util.Assert(t, loaded.Public.Hash() == kp.Public.Hash(), "loaded keypair should match the saved one")
	util.AssertNoErr(t, loaded.Validate())
}
