package gossip

import (
	"sync"

	"golang.org/x/time/rate"
)

// peerRateLimiter gives every peer-id its own token bucket so one noisy or
// malicious peer can't starve processing of everyone else's gossip.
// Peers are not disconnected for sending too much or for sending
// malformed messages; rather than disconnect, we just slow a peer down.
type peerRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newPeerRateLimiter(messagesPerSecond float64, burst int) *peerRateLimiter {
	return &peerRateLimiter{
		limiters: map[string]*rate.Limiter{},
		rate:     rate.Limit(messagesPerSecond),
		burst:    burst,
	}
}

func (l *peerRateLimiter) allow(peerID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[peerID]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[peerID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
