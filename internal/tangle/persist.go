package tangle

import (
	"fmt"
	"io"

	"github.com/duskcoin/tangled/internal/dag"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/xhash"
)

// persistMagic and persistVersion identify the on-disk tangle format:
// magic bytes, a version byte, a count, then transactions in topological
// order using the same encoding as the wire format.
var persistMagic = [4]byte{'T', 'N', 'G', 'L'}

const persistVersion = byte(1)

// listTopological returns every node reachable from genesis in
// parent-before-child order, matching the pre-order full-DAG send used by
// the gossip sync.
func (e *Engine) listTopological() []*dag.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*dag.Node
	seen := map[kern.Hash]bool{}
	queue := []*dag.Node{e.genesis}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n.Hash()] {
			continue
		}
		ready := true
		for _, p := range n.Parents() {
			if !seen[p.Hash()] {
				ready = false
				break
			}
		}
		if !ready {
			// queued again when its last parent is emitted
			continue
		}
		seen[n.Hash()] = true
		out = append(out, n)
		queue = append(queue, n.Children()...)
	}
	return out
}

// SaveTangle writes a topologically sorted sequence of transactions to
// sink, prefixed by a magic/version header and a count.
func (e *Engine) SaveTangle(sink io.Writer) error {
	nodes := e.listTopological()
	enc := xhash.NewEncoder()
	enc.Uint32(uint32(len(nodes)))
	for _, n := range nodes {
		enc.Bytes(n.Tx.EncodeSigned())
	}
	if _, err := sink.Write(persistMagic[:]); err != nil {
		return err
	}
	if _, err := sink.Write([]byte{persistVersion}); err != nil {
		return err
	}
	_, err := sink.Write(enc.Encoded())
	return err
}

// LoadTangle reads a previously-saved tangle from source and rebuilds the
// graph by applying Add in order with weight updates disabled, then runs
// one pass of cumulative-weight recomputation from each tip. The first
// transaction read must be a genesis transaction and becomes the root of
// a fresh Engine via New.
func LoadTangle(source io.Reader) (*Engine, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(source, header); err != nil {
		return nil, err
	}
	if [4]byte(header[:4]) != persistMagic {
		return nil, fmt.Errorf("tangle: bad magic bytes")
	}
	if header[4] != persistVersion {
		return nil, fmt.Errorf("tangle: unsupported persist version %d", header[4])
	}
	rest, err := io.ReadAll(source)
	if err != nil {
		return nil, err
	}

	var engine *Engine
	decodeErr := xhash.DecodeRecover(rest, func(d *xhash.Decoder) {
		count := d.Uint32()
		for i := uint32(0); i < count; i++ {
			raw := d.Bytes()
			tx, err := kern.DecodeTransaction(raw)
			if err != nil {
				panic(err)
			}
			if i == 0 {
				engine, err = New(tx)
				if err != nil {
					panic(err)
				}
				continue
			}
			if _, err := engine.Add(tx, AddOptions{SkipBalance: true, DisableWeightUpdate: true}); err != nil {
				panic(err)
			}
		}
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if engine == nil {
		return nil, fmt.Errorf("tangle: empty persisted tangle")
	}
	engine.UpdateWeights()
	return engine, nil
}
