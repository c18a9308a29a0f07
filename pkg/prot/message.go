package prot

// MessageType tags each frame on the wire with which gossip message
// taxonomy entry it carries, so a single Conn can multiplex every message
// type the gossip layer defines.
type MessageType uint8

const (
	MessageTypePublicKeySyncRequest MessageType = iota
	MessageTypePublicKeySyncResponse
	MessageTypeTangleSynchronizeRequest
	MessageTypeSyncGenesisRequest
	MessageTypeSynchronizationAddTransactionRequest
	MessageTypeAddTransactionRequest
	MessageTypeUpdateWeightsRequest

	// Peer-discovery message types. These aren't part of the gossip
	// message taxonomy itself; they're the ambient peer-address exchange
	// that keeps the network connected, mirroring the gossip dispatch
	// convention of one type byte per frame.
	MessageTypeAddrsRequest
	MessageTypePeerAddrs
	MessageTypeAnnounceAddr
	MessageTypePing
)

// ReadMessage reads one type-tagged frame: a single type byte followed by
// the length-prefixed payload written by Write.
func (c *Conn) ReadMessage() (MessageType, []byte) {
	if c.err != nil {
		return 0, nil
	}
	typeB := c.readRawTimeout(1, defaultTimeout)
	if c.err != nil {
		return 0, nil
	}
	payload := c.Read()
	return MessageType(typeB[0]), payload
}

// WriteMessage writes one type-tagged frame.
func (c *Conn) WriteMessage(t MessageType, payload []byte) {
	if c.err != nil {
		return
	}
	c.writeRawTimeout([]byte{byte(t)}, defaultTimeout)
	c.Write(payload)
}
