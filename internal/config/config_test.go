package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/duskcoin/tangled/internal/config"
	"github.com/duskcoin/tangled/pkg/util"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	util.AssertNoErr(t, err)
	util.Assert(t, reflect.DeepEqual(cfg, config.Default()), "a missing config file should fall back to Default unchanged")
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := config.Load("")
	util.AssertNoErr(t, err)
	util.Assert(t, reflect.DeepEqual(cfg, config.Default()), "an empty path should fall back to Default unchanged")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")

	cfg := config.Default()
	cfg.ListenAddr = "127.0.0.1:9000"
	cfg.SeedAddrs = []string{"127.0.0.1:9001", "127.0.0.1:9002"}
	cfg.MiningDifficulty = 4
	cfg.AutoFund = false

	util.AssertNoErr(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	util.AssertNoErr(t, err)
	util.Assert(t, reflect.DeepEqual(loaded, cfg), "round-tripping through Save/Load should preserve every field")
}

func TestLoadOverlaysOnlyDeclaredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	util.AssertNoErr(t, os.WriteFile(path, []byte("listenAddr: 0.0.0.0:8000\n"), 0644))

	loaded, err := config.Load(path)
	util.AssertNoErr(t, err)
	util.Assert(t, loaded.ListenAddr == "0.0.0.0:8000", "declared field should be applied, got %q", loaded.ListenAddr)
	util.Assert(t, loaded.MaxPeers == config.Default().MaxPeers, "undeclared field should keep its default, got %d", loaded.MaxPeers)
}
