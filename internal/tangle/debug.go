package tangle

import (
	"fmt"
	"io"
)

// DebugDump writes one line per node in the graph to w: hash, cumulative
// weight, parent count, child count, and the genesis flag. Unordered, intended for the
// CLI's "d" command and for httpapi's JSON dump to mirror in text form.
func (e *Engine) DebugDump(w io.Writer) {
	for _, n := range e.ListTransactions() {
		fmt.Fprintf(w, "%x weight=%.4f parents=%d children=%d genesis=%v\n",
			n.Hash(), n.CumulativeWeight(), len(n.Parents()), len(n.Children()), n.IsGenesis)
	}
}
