package xhash

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decoder walks a byte slice produced by Encoder, field by field. Every
// method panics via an internal recover-friendly error if the buffer is
// exhausted early; callers should wrap top-level decode entry points with
// DecodeRecover.
type Decoder struct {
	buf []byte
	pos int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Run fn over data, converting any panic raised by a Decoder method
// (buffer exhaustion) into a returned error instead.
func DecodeRecover(data []byte, fn func(d *Decoder)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode error: %v", r)
		}
	}()
	fn(NewDecoder(data))
	return nil
}

func (d *Decoder) need(n int) {
	if d.pos+n > len(d.buf) {
		panic(fmt.Sprintf("buffer exhausted: need %d bytes at offset %d of %d", n, d.pos, len(d.buf)))
	}
}

func (d *Decoder) Uint8() uint8 {
	d.need(1)
	v := d.buf[d.pos]
	d.pos++
	return v
}

func (d *Decoder) Uint32() uint32 {
	d.need(4)
	v := binary.LittleEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v
}

func (d *Decoder) Uint64() uint64 {
	d.need(8)
	v := binary.LittleEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return v
}

func (d *Decoder) Float64() float64 {
	return math.Float64frombits(d.Uint64())
}

func (d *Decoder) Bool() bool {
	return d.Uint8() != 0
}

func (d *Decoder) Bytes() []byte {
	n := int(d.Uint32())
	d.need(n)
	v := make([]byte, n)
	copy(v, d.buf[d.pos:d.pos+n])
	d.pos += n
	return v
}

func (d *Decoder) String() string {
	return string(d.Bytes())
}

func (d *Decoder) Hash() Hash {
	d.need(Size)
	h := FromBytes(d.buf[d.pos : d.pos+Size])
	d.pos += Size
	return h
}

func (d *Decoder) Hashes() []Hash {
	n := int(d.Uint32())
	out := make([]Hash, n)
	for i := range out {
		out[i] = d.Hash()
	}
	return out
}

// Pull out a length-prefixed sub-buffer written by Encoder.Sub, returning a
// fresh Decoder scoped to just those bytes.
func (d *Decoder) Sub() *Decoder {
	return NewDecoder(d.Bytes())
}

// Whether the decoder has consumed its entire buffer.
func (d *Decoder) Done() bool {
	return d.pos >= len(d.buf)
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}
