// Package peer runs one connection's read/write loop: dispatching inbound
// gossip frames to internal/gossip and inbound address-book frames to the
// local pubsub bus, and servicing outbound address-book requests the bus
// routes to this specific peer.
package peer

import (
	"github.com/sirupsen/logrus"

	"github.com/duskcoin/tangled/internal/gossip"
	"github.com/duskcoin/tangled/internal/pubsub"
	"github.com/duskcoin/tangled/pkg/prot"
	"github.com/duskcoin/tangled/pkg/topic"
)

// Peer owns one live connection and adapts it to gossip.Peer.
type Peer struct {
	pubSub *pubsub.PubSub
	gsp    *gossip.Gossip
	conn   *prot.Conn
	subs   *subscriptions
	log    *logrus.Entry
}

type inboundFrame struct {
	t       prot.MessageType
	payload []byte
}

type subscriptions struct {
	PrintUpdate        *topic.Sub[pubsub.PrintUpdateEvent]
	SendPeers          *topic.Sub[pubsub.SendPeersEvent]
	ShouldAnnounceAddr *topic.Sub[pubsub.ShouldAnnounceAddrEvent]
	ShouldRequestPeers *topic.Sub[pubsub.ShouldRequestPeersEvent]
}

// NewPeer wraps an already-handshaken connection.
func NewPeer(pubSub *pubsub.PubSub, gsp *gossip.Gossip, conn *prot.Conn, log *logrus.Entry) *Peer {
	return &Peer{
		pubSub: pubSub,
		gsp:    gsp,
		conn:   conn,
		log:    log.WithField("peer", conn.PeerRuntimeID()),
		subs: &subscriptions{
			PrintUpdate:        pubSub.PrintUpdate.Sub(),
			SendPeers:          pubSub.SendPeers.Sub(),
			ShouldAnnounceAddr: pubSub.ShouldAnnounceAddr.Sub(),
			ShouldRequestPeers: pubSub.ShouldRequestPeers.Sub(),
		},
	}
}

// ID implements gossip.Peer.
func (p *Peer) ID() string { return p.conn.PeerRuntimeID() }

// Send implements gossip.Peer.
func (p *Peer) Send(t prot.MessageType, payload []byte) {
	p.conn.WriteMessage(t, payload)
}

// Loop drives the connection until it errors or the peer asks to close.
// Reads happen on a dedicated goroutine feeding a channel, since ReadMessage
// blocks for up to the connection's default timeout and would otherwise
// starve the outbound event cases below.
func (p *Peer) Loop() {
	defer p.close()

	frames := make(chan inboundFrame, 16)
	go p.readLoop(frames)

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := p.dispatch(frame.t, frame.payload); err != nil {
				p.log.Warnf("error handling message: %s", err)
			}

		case event := <-p.subs.ShouldRequestPeers.C:
			if event.TargetRuntimeID == p.conn.PeerRuntimeID() {
				p.conn.WriteMessage(prot.MessageTypeAddrsRequest, nil)
			}

		case event := <-p.subs.SendPeers.C:
			if event.TargetRuntimeID == p.conn.PeerRuntimeID() {
				p.writePeerAddrs(event.PeerAddrs)
			}

		case event := <-p.subs.ShouldAnnounceAddr.C:
			if event.TargetRuntimeID == p.conn.PeerRuntimeID() {
				p.conn.WriteMessage(prot.MessageTypeAnnounceAddr, []byte(event.Addr))
			}

		case event := <-p.subs.PrintUpdate.C:
			if event.Peer {
				p.log.Info("peer exists")
			}
		}
		if p.conn.HasErr() {
			return
		}
	}
}

func (p *Peer) readLoop(out chan<- inboundFrame) {
	defer close(out)
	for {
		t, payload := p.conn.ReadMessage()
		if p.conn.HasErr() {
			return
		}
		out <- inboundFrame{t: t, payload: payload}
	}
}

func (p *Peer) close() {
	if r := recover(); r != nil {
		p.log.Errorf("closed from panic: %v", r)
	} else {
		p.log.Info("closed")
	}
	// Subs aren't Close()d here: Sub.Close blocks until the topic's next
	// Pub observes the stop request, which may never come once this peer
	// alone would have triggered it. Left as a bounded per-peer leak the
	// same way the original chain/peer implementation did.
	p.pubSub.PeerClosing.Pub(pubsub.PeerClosingEvent{PeerRuntimeID: p.conn.PeerRuntimeID()})
}

func (p *Peer) dispatch(t prot.MessageType, payload []byte) error {
	switch t {
	case prot.MessageTypeAddrsRequest:
		p.pubSub.PeersRequested.Pub(pubsub.PeersRequestedEvent{PeerRuntimeID: p.conn.PeerRuntimeID()})
		return nil
	case prot.MessageTypePeerAddrs:
		return p.readPeerAddrs(payload)
	case prot.MessageTypeAnnounceAddr:
		p.pubSub.PeerAnnouncedAddr.Pub(pubsub.PeerAnnouncedAddrEvent{
			PeerRuntimeID: p.conn.PeerRuntimeID(),
			Addr:          string(payload),
		})
		return nil
	case prot.MessageTypePing:
		return nil
	default:
		return p.gsp.Handle(p, t, payload)
	}
}
