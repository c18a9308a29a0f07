package pubsub

// A peer has announced the address other nodes should use to dial it back.
type PeerAnnouncedAddrEvent struct {
	PeerRuntimeID string
	Addr          string
}

// Emitted by a peer connection as it closes, so the factory can forget it.
type PeerClosingEvent struct {
	PeerRuntimeID string
}

// We received another peer's address book.
type PeersReceivedEvent struct {
	PeerAddrs map[string]string
}

// The given peer asked us for our address book.
type PeersRequestedEvent struct {
	PeerRuntimeID string
}

// Send our address book to the given peer.
type SendPeersEvent struct {
	TargetRuntimeID string
	PeerAddrs       map[string]string
}

// We should announce our listen address to the given peer.
type ShouldAnnounceAddrEvent struct {
	TargetRuntimeID string
	Addr            string
}

// We should ask the given peer for their address book.
type ShouldRequestPeersEvent struct {
	TargetRuntimeID string
}

// Periodic tick asking long-running loops to print a status line.
type PrintUpdateEvent struct {
	PeerFactory bool
	Peer        bool
}
