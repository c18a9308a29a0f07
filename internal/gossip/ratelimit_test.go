package gossip

import (
	"testing"

	"github.com/duskcoin/tangled/pkg/util"
)

func TestPeerRateLimiterAllowsWithinBurst(t *testing.T) {
	l := newPeerRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		util.Assert(t, l.allow("peer-a"), "call %d within burst should be allowed", i)
	}
	util.Assert(t, !l.allow("peer-a"), "call beyond burst should be denied")
}

func TestPeerRateLimiterTracksPeersIndependently(t *testing.T) {
	l := newPeerRateLimiter(1, 1)
	util.Assert(t, l.allow("peer-a"), "peer-a's first call should be allowed")
	util.Assert(t, !l.allow("peer-a"), "peer-a's second call should be denied, burst exhausted")
	util.Assert(t, l.allow("peer-b"), "peer-b has its own bucket and should still be allowed")
}
