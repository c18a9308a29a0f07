// Package pubsub is the typed event bus wiring internal/peerfactory and
// internal/peer together for peer-address discovery, adapted from the
// teacher's chain/mempool event bus to the smaller set of events this
// network actually needs -- address exchange has no notion of a "head".
package pubsub

import "github.com/duskcoin/tangled/pkg/topic"

// PubSub is the full set of topics any networking component needs.
type PubSub struct {
	PeerAnnouncedAddr  *topic.Topic[PeerAnnouncedAddrEvent]
	PeerClosing        *topic.Topic[PeerClosingEvent]
	PeersReceived      *topic.Topic[PeersReceivedEvent]
	PeersRequested     *topic.Topic[PeersRequestedEvent]
	PrintUpdate        *topic.Topic[PrintUpdateEvent]
	SendPeers          *topic.Topic[SendPeersEvent]
	ShouldAnnounceAddr *topic.Topic[ShouldAnnounceAddrEvent]
	ShouldRequestPeers *topic.Topic[ShouldRequestPeersEvent]
}

func New() *PubSub {
	return &PubSub{
		PeerAnnouncedAddr:  topic.NewTopic[PeerAnnouncedAddrEvent](),
		PeerClosing:        topic.NewTopic[PeerClosingEvent](),
		PeersReceived:      topic.NewTopic[PeersReceivedEvent](),
		PeersRequested:     topic.NewTopic[PeersRequestedEvent](),
		PrintUpdate:        topic.NewTopic[PrintUpdateEvent](),
		SendPeers:          topic.NewTopic[SendPeersEvent](),
		ShouldAnnounceAddr: topic.NewTopic[ShouldAnnounceAddrEvent](),
		ShouldRequestPeers: topic.NewTopic[ShouldRequestPeersEvent](),
	}
}
