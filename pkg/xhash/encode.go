package xhash

import (
	"encoding/binary"
	"math"
)

// Encoder accumulates a canonical, length-prefixed byte encoding of a
// sequence of fields. Every multi-field structure in this module (inputs,
// outputs, transactions, gossip messages) builds its encoding through one
// of these before hashing or writing it to the wire.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 128)}
}

// Write raw bytes, length-prefixed with a uint32.
func (e *Encoder) Bytes(data []byte) *Encoder {
	e.Uint32(uint32(len(data)))
	e.buf = append(e.buf, data...)
	return e
}

// Write a string, length-prefixed with a uint32, UTF-8 encoded.
func (e *Encoder) String(data string) *Encoder {
	return e.Bytes([]byte(data))
}

func (e *Encoder) Uint8(data uint8) *Encoder {
	e.buf = append(e.buf, data)
	return e
}

func (e *Encoder) Uint32(data uint32) *Encoder {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, data)
	e.buf = append(e.buf, b...)
	return e
}

func (e *Encoder) Uint64(data uint64) *Encoder {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, data)
	e.buf = append(e.buf, b...)
	return e
}

func (e *Encoder) Float64(data float64) *Encoder {
	return e.Uint64(math.Float64bits(data))
}

func (e *Encoder) Hash(h Hash) *Encoder {
	e.buf = append(e.buf, h.data[:]...)
	return e
}

// Write a sequence of hashes, length-prefixed by count.
func (e *Encoder) Hashes(hs []Hash) *Encoder {
	e.Uint32(uint32(len(hs)))
	for _, h := range hs {
		e.Hash(h)
	}
	return e
}

// Append an already-encoded sub-object's bytes length-prefixed, so the
// parent encoding can be unambiguously split back into its fields.
func (e *Encoder) Sub(sub *Encoder) *Encoder {
	return e.Bytes(sub.buf)
}

func (e *Encoder) Bool(data bool) *Encoder {
	if data {
		return e.Uint8(1)
	}
	return e.Uint8(0)
}

// Retrieve the accumulated bytes.
func (e *Encoder) Encoded() []byte {
	return e.buf
}

// Hash the accumulated encoding.
func (e *Encoder) Sum() Hash {
	return OfBytes(e.buf)
}
