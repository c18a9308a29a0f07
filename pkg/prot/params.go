package prot

import "github.com/google/uuid"

// Params configures a Conn's handshake.
type Params struct {
	// RuntimeID uniquely identifies this process across its lifetime,
	// distinct from any PublicKey identity.
	RuntimeID string `json:"runtimeId"`
	// ListenAddr is the address other peers should dial to reach us,
	// exchanged during the handshake so a recipient of an inbound
	// connection learns where to reach us back.
	ListenAddr string `json:"listenAddr"`
	// WeAreInitiator records which side of the TCP connection opened it.
	WeAreInitiator bool `json:"weAreInitiator"`
}

func NewParams(listenAddr string) Params {
	return Params{
		RuntimeID:  uuid.NewString(),
		ListenAddr: listenAddr,
	}
}
