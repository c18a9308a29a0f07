// Package peerfactory dials seed peers, accepts inbound connections, and
// upgrades each into a live internal/peer.Peer, wiring it to a shared
// internal/gossip.Gossip dispatcher and internal/pubsub address-book bus.
package peerfactory

import (
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/duskcoin/tangled/internal/gossip"
	"github.com/duskcoin/tangled/internal/metrics"
	"github.com/duskcoin/tangled/internal/peer"
	"github.com/duskcoin/tangled/internal/pubsub"
	"github.com/duskcoin/tangled/pkg/prot"
	"github.com/duskcoin/tangled/pkg/util"
)

// PeerFactory owns dialing, listening, and the known-peer address book. It
// hands finished connections off to internal/peer and does not otherwise
// manage them.
type PeerFactory struct {
	params         Params
	pubSub         *pubsub.PubSub
	gsp            *gossip.Gossip
	newConns       chan *prot.Conn
	newAddrs       chan string
	knownPeers     *util.Set[string]
	knownPeerAddrs map[string]string
	// livePeers tracks the currently connected peer.Peer by runtime id for
	// Broadcast. Unlike the key directory, entries here must be removable
	// as peers disconnect, so this is a plain sync.Map rather than
	// pkg/util's append-only SyncMap.
	livePeers     sync.Map
	listenStarted atomic.Bool
	seedAddrs     []string
	log           *logrus.Entry
}

func New(params Params, pubSub *pubsub.PubSub, gsp *gossip.Gossip, log *logrus.Entry) *PeerFactory {
	return &PeerFactory{
		params:         params,
		pubSub:         pubSub,
		gsp:            gsp,
		newConns:       make(chan *prot.Conn, 256),
		newAddrs:       make(chan string, 256),
		knownPeers:     util.NewSet[string](),
		knownPeerAddrs: map[string]string{},
		log:            log,
	}
}

// Broadcast sends a frame to every currently connected peer. Used as
// internal/gossip's rebroadcast callback.
func (pf *PeerFactory) Broadcast(t prot.MessageType, payload []byte) {
	pf.livePeers.Range(func(_, v any) bool {
		v.(*peer.Peer).Send(t, payload)
		return true
	})
}

// SetSeeds records the peers to dial at startup. Must run before Loop.
func (pf *PeerFactory) SetSeeds(seedAddrs []string) {
	pf.seedAddrs = seedAddrs
}

// Loop drives dialing, listening, and address-book maintenance until the
// process exits.
func (pf *PeerFactory) Loop() {
	go pf.tryNewAddrs()

	if len(pf.seedAddrs) > 0 {
		go pf.dialSeeds()
	}
	if pf.params.Listen && pf.params.LocalAddr != "" {
		go pf.listen()
	}

	subPeerAnnouncedAddr := pf.pubSub.PeerAnnouncedAddr.Sub()
	subPeerClosing := pf.pubSub.PeerClosing.Sub()
	subPeersReceived := pf.pubSub.PeersReceived.Sub()
	subPeersRequested := pf.pubSub.PeersRequested.Sub()

	seekTicker := time.NewTicker(pf.params.SeekNewPeersFreq)
	defer seekTicker.Stop()

	for {
		select {
		case conn := <-pf.newConns:
			pf.addConn(conn)

		case event := <-subPeerAnnouncedAddr.C:
			pf.knownPeerAddrs[event.PeerRuntimeID] = event.Addr

		case event := <-subPeerClosing.C:
			pf.knownPeers.Remove(event.PeerRuntimeID)
			delete(pf.knownPeerAddrs, event.PeerRuntimeID)
			pf.livePeers.Delete(event.PeerRuntimeID)
			metrics.ConnectedPeers.Set(float64(pf.knownPeers.Size()))


		case event := <-subPeersReceived.C:
			for runtimeID, addr := range event.PeerAddrs {
				if runtimeID != pf.params.RuntimeID && !pf.knownPeers.Includes(runtimeID) {
					pf.newAddrs <- addr
				}
			}

		case event := <-subPeersRequested.C:
			pf.pubSub.SendPeers.Pub(pubsub.SendPeersEvent{
				TargetRuntimeID: event.PeerRuntimeID,
				PeerAddrs:       util.CopyMap(pf.knownPeerAddrs),
			})

		case <-seekTicker.C:
			pf.seekNewPeers()
		}
	}
}

func (pf *PeerFactory) dialSeeds() {
	numTries := 15
	for i := 0; i < numTries; i++ {
		found := false
		for _, addr := range pf.seedAddrs {
			conn, err := pf.tryConn(addr)
			if err == nil {
				pf.newConns <- conn
				found = true
				pf.log.Info("successfully connected to seed peer")
				break
			}
			pf.log.Warnf("failed to connect to seed peer %s: %s", addr, err)
		}
		if found {
			break
		}
		time.Sleep(time.Second)
	}
	for _, addr := range pf.seedAddrs {
		pf.newAddrs <- addr
	}
}

func (pf *PeerFactory) tryNewAddrs() {
	for addr := range pf.newAddrs {
		conn, err := pf.tryConn(addr)
		if err != nil {
			pf.log.Warnf("failed to resolve addr %s: %s", addr, err)
			continue
		}
		pf.newConns <- conn
	}
}

func (pf *PeerFactory) tryConn(addr string) (*prot.Conn, error) {
	params := prot.NewParams(pf.params.LocalAddr)
	params.RuntimeID = pf.params.RuntimeID
	params.WeAreInitiator = true
	conn, err := prot.ResolveConn(params, addr)
	if err != nil {
		return nil, err
	}
	if conn.HasErr() {
		conn.CloseIfPossible()
		return nil, conn.Err()
	}
	return conn, nil
}

func (pf *PeerFactory) listen() {
	if pf.listenStarted.Load() {
		return
	}
	pf.listenStarted.Store(true)

	addr, err := net.ResolveTCPAddr("tcp", pf.params.LocalAddr)
	if err != nil {
		panic(err)
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		panic(err)
	}
	defer listener.Close()

	for {
		tcpConn, err := listener.AcceptTCP()
		if err != nil {
			continue
		}
		params := prot.NewParams(pf.params.LocalAddr)
		params.RuntimeID = pf.params.RuntimeID
		params.WeAreInitiator = false
		conn := prot.NewConn(params, tcpConn)
		if conn.HasErr() {
			conn.CloseIfPossible()
			continue
		}
		pf.newConns <- conn
	}
}

func (pf *PeerFactory) addConn(conn *prot.Conn) {
	if conn.HasErr() {
		conn.CloseIfPossible()
		return
	}
	runtimeID := conn.PeerRuntimeID()
	if pf.knownPeers.Size() >= pf.params.MaxPeers || pf.knownPeers.Includes(runtimeID) {
		pf.log.Infof("will not connect to peer %s", runtimeID)
		conn.CloseIfPossible()
		return
	}
	p := peer.NewPeer(pf.pubSub, pf.gsp, conn, pf.log)
	pf.knownPeers.Add(runtimeID)
	pf.livePeers.Store(runtimeID, p)
	if addr := conn.PeerListenAddr(); addr != "" {
		pf.knownPeerAddrs[runtimeID] = addr
	}
	go p.Loop()
	go pf.gsp.RequestSync(p)
	metrics.ConnectedPeers.Set(float64(pf.knownPeers.Size()))
}

func (pf *PeerFactory) seekNewPeers() {
	if pf.knownPeers.Size() == 0 || pf.knownPeers.Size() >= pf.params.MinPeers {
		return
	}
	targets := pf.knownPeers.ToList()
	target := targets[rand.Intn(len(targets))]
	pf.pubSub.ShouldRequestPeers.Pub(pubsub.ShouldRequestPeersEvent{TargetRuntimeID: target})
}
