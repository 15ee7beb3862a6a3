package gop

import "sync/atomic"

// auxState holds the consistency metadata (C5) every Protected[T] carries
// alongside its scheme-specific redundancy bytes: the dirty marker d and
// the version counter v from SPEC_FULL.md §4.4, plus an optional counting
// lock.
//
// Go's memory model guarantees that atomic loads/stores on dirty and ver
// establish the happens-before edges the spec's "compiler barrier, full
// memory fence on SMP" exists to provide; sync/atomic is used
// unconditionally rather than gated behind Config.SMP (see SPEC_FULL.md
// §4.4 and §9).
type auxState struct {
	dirty atomic.Uint64 // writer token; 0 == clean (I3)
	ver   atomic.Uint64  // version v; incremented at the end of every generate (I2)
	lock  *countingLock  // nil unless the target is Synchronized
}

// beginMutate marks the state dirty under a fresh writer token and returns
// it, per the "dirty(d) -> mutate T -> generate -> inc_version ->
// reset_dirty" ordering in SPEC_FULL.md §5. Callers must eventually call
// finishGenerate (directly, or via Protected.Generate) to clear it.
func (s *auxState) beginMutate() uint64 {
	tok := nextToken()
	s.dirty.Store(tok)
	return tok
}

// snapshot returns the current (dirty, version) pair for the verification
// protocol's before/after comparison.
func (s *auxState) snapshot() (dirty, ver uint64) {
	return s.dirty.Load(), s.ver.Load()
}

// finishGenerate increments the version and clears the dirty marker,
// completing the generation protocol.
func (s *auxState) finishGenerate() {
	s.ver.Add(1)
	s.dirty.Store(0)
}
