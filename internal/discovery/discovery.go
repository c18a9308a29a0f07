// Package discovery implements sidechannel port discovery: advertising
// and finding peers' gossip ports without the operator wiring them by
// hand. The primary path is mDNS/DNS-SD service advertisement via
// zeroconf. RequestPort is a separate raw handshake: dial a fixed
// handshake port, read back the gossip port as 2 bytes little-endian.
// Nothing in this package switches to it when browsing finds no
// responder; a caller picks one path or the other.
package discovery

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/sirupsen/logrus"
)

const (
	serviceName   = "_tangled._tcp"
	serviceDomain = "local."
	browseTimeout = 3 * time.Second
)

// Advertiser publishes this node's gossip port over mDNS until Close.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers instance (normally the node's runtime id) as
// reachable on port. text carries arbitrary key=value metadata, unused by
// the core but available for future protocol versioning.
func Advertise(instance string, port int, text []string) (*Advertiser, error) {
	server, err := zeroconf.Register(instance, serviceName, serviceDomain, port, text, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: register: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Close withdraws the mDNS advertisement.
func (a *Advertiser) Close() {
	a.server.Shutdown()
}

// Peer is one discovered advertiser, reconstructed from a ServiceEntry.
type Peer struct {
	Instance string
	Addr     string
}

// Browse listens for mDNS responses for up to browseTimeout and returns
// every distinct peer found, excluding selfInstance. A log is used to
// record entries skipped for lacking a usable address rather than failing
// the whole browse.
func Browse(selfInstance string, log *logrus.Entry) ([]Peer, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	peers := []Peer{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if entry.Instance == selfInstance {
				continue
			}
			addr := addrFromEntry(entry)
			if addr == "" {
				if log != nil {
					log.Debugf("discovery: skipping entry %s with no usable address", entry.Instance)
				}
				continue
			}
			peers = append(peers, Peer{Instance: entry.Instance, Addr: addr})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
	defer cancel()
	if err := resolver.Browse(ctx, serviceName, serviceDomain, entries); err != nil {
		return nil, fmt.Errorf("discovery: browse: %w", err)
	}
	<-ctx.Done()
	<-done
	return peers, nil
}

func addrFromEntry(entry *zeroconf.ServiceEntry) string {
	if len(entry.AddrIPv4) > 0 {
		return fmt.Sprintf("%s:%d", entry.AddrIPv4[0].String(), entry.Port)
	}
	if len(entry.AddrIPv6) > 0 {
		return fmt.Sprintf("[%s]:%d", entry.AddrIPv6[0].String(), entry.Port)
	}
	return ""
}

// ServeHandshake listens on handshakeAddr and, for every connecting
// client, writes gossipPort as 2 bytes little-endian before closing the
// connection. This is the fallback for when mDNS is unavailable (e.g.
// the network drops multicast, or a firewalled container).
func ServeHandshake(handshakeAddr string, gossipPort uint16, log *logrus.Entry) (io.Closer, error) {
	ln, err := net.Listen("tcp", handshakeAddr)
	if err != nil {
		return nil, fmt.Errorf("discovery: listen handshake: %w", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				buf := make([]byte, 2)
				binary.LittleEndian.PutUint16(buf, gossipPort)
				if _, err := conn.Write(buf); err != nil && log != nil {
					log.Debugf("discovery: handshake write failed: %s", err)
				}
			}()
		}
	}()
	return ln, nil
}

// RequestPort dials handshakeAddr and reads back a 2-byte little-endian
// gossip port, the client side of ServeHandshake.
func RequestPort(handshakeAddr string, timeout time.Duration) (uint16, error) {
	conn, err := net.DialTimeout("tcp", handshakeAddr, timeout)
	if err != nil {
		return 0, fmt.Errorf("discovery: dial handshake: %w", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 2)
	if _, err := conn.Read(buf); err != nil {
		return 0, fmt.Errorf("discovery: read handshake: %w", err)
	}
	return binary.LittleEndian.Uint16(buf), nil
}
