package gop

import "sync/atomic"

// writerTokens hands out the monotonic writer tokens used as the dirty
// marker. The original implementation uses the calling frame's address as a
// portable stand-in for a thread id; SPEC_FULL.md §9 explicitly invites
// substituting a real thread id or a monotonic writer token in a
// reimplementation, and a monotonic counter is the natural Go choice since
// goroutines have no stable, exposed identity.
var writerTokens atomic.Uint64

// nextToken returns a fresh nonzero writer token. Zero is reserved to mean
// "no writer in flight" (the dirty marker's null state).
func nextToken() uint64 {
	for {
		t := writerTokens.Add(1)
		if t != 0 {
			return t
		}
	}
}
