package peer

import (
	"github.com/duskcoin/tangled/internal/pubsub"
	"github.com/duskcoin/tangled/pkg/prot"
	"github.com/duskcoin/tangled/pkg/xhash"
)

func (p *Peer) readPeerAddrs(payload []byte) error {
	peerAddrs := map[string]string{}
	err := xhash.DecodeRecover(payload, func(d *xhash.Decoder) {
		n := d.Uint64()
		for i := uint64(0); i < n; i++ {
			runtimeID := string(d.Bytes())
			addr := string(d.Bytes())
			peerAddrs[runtimeID] = addr
		}
	})
	if err != nil {
		return err
	}
	p.pubSub.PeersReceived.Pub(pubsub.PeersReceivedEvent{PeerAddrs: peerAddrs})
	return nil
}

func (p *Peer) writePeerAddrs(peerAddrs map[string]string) {
	e := xhash.NewEncoder()
	e.Uint64(uint64(len(peerAddrs)))
	for runtimeID, addr := range peerAddrs {
		e.Bytes([]byte(runtimeID))
		e.Bytes([]byte(addr))
	}
	p.conn.WriteMessage(prot.MessageTypePeerAddrs, e.Encoded())
}
