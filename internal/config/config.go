// Package config loads node configuration from a YAML file and layers CLI
// flag overrides on top, adapted from quidnug's env-var Config to the YAML
// file format quidnug itself uses for its own docker-compose assets.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable a tanglenode process needs at startup.
type Config struct {
	ListenAddr         string        `yaml:"listenAddr"`
	SeedAddrs          []string      `yaml:"seedAddrs"`
	LogLevel           string        `yaml:"logLevel"`
	LogPath            string        `yaml:"logPath"`
	MiningDifficulty   uint8         `yaml:"miningDifficulty"`
	MinPeers           int           `yaml:"minPeers"`
	MaxPeers           int           `yaml:"maxPeers"`
	SeekNewPeersFreq   time.Duration `yaml:"seekNewPeersFreq"`
	RateLimitPerSecond float64       `yaml:"rateLimitPerSecond"`
	RateLimitBurst     int           `yaml:"rateLimitBurst"`
	DataDir            string        `yaml:"dataDir"`
	KeyFile            string        `yaml:"keyFile"`
	HTTPAddr           string        `yaml:"httpAddr"`
	DiscoveryEnabled   bool          `yaml:"discoveryEnabled"`
	AutoFund           bool          `yaml:"autoFund"`
	AutoFundAmount     float64       `yaml:"autoFundAmount"`
}

// Default returns the baseline config for a freshly-created dev network.
func Default() Config {
	return Config{
		ListenAddr:         "",
		SeedAddrs:          nil,
		LogLevel:           "info",
		LogPath:            "node.log",
		MiningDifficulty:   2,
		MinPeers:           2,
		MaxPeers:           32,
		SeekNewPeersFreq:   15 * time.Second,
		RateLimitPerSecond: 50,
		RateLimitBurst:     100,
		DataDir:            "./data",
		KeyFile:            "./data/node.key",
		HTTPAddr:           "",
		DiscoveryEnabled:   true,
		AutoFund:           true,
		AutoFundAmount:     1_000_000,
	}
}

// Load reads path if it exists, overlaying its fields on Default; a
// missing file is not an error, since CLI flags alone are a valid
// configuration source.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
