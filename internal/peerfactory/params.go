package peerfactory

import "time"

// Params configures how a node maintains its peer network.
type Params struct {
	Listen           bool
	LocalAddr        string
	MinPeers         int
	MaxPeers         int
	RuntimeID        string
	SeekNewPeersFreq time.Duration
}

// ProdParams returns sane defaults for a real network deployment.
func ProdParams(listen bool, localAddr, runtimeID string) Params {
	return Params{
		Listen:           listen,
		LocalAddr:        localAddr,
		MinPeers:         8,
		MaxPeers:         32,
		RuntimeID:        runtimeID,
		SeekNewPeersFreq: 15 * time.Second,
	}
}

// DevParams returns lighter defaults for local multi-process testing.
func DevParams(listen bool, localAddr, runtimeID string) Params {
	return Params{
		Listen:           listen,
		LocalAddr:        localAddr,
		MinPeers:         2,
		MaxPeers:         5,
		RuntimeID:        runtimeID,
		SeekNewPeersFreq: 5 * time.Second,
	}
}
