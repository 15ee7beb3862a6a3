package gop

import "sync/atomic"

// ANB encoding constants: a healthy lock counter always satisfies
// (x - anbB) mod anbA == 0. These are the reference constants from the
// original scheme.
const (
	anbA = 127
	anbB = 5
)

// countingLock is the ANB-encoded reentrant counting lock (C6). It never
// blocks: lock/unlock only ever add or subtract anbA from the encoded
// counter. Its job is to let a writer tell, on exit, whether it was the
// sole holder (single-holder state is when it is safe to refresh
// redundancy), and to let any reader notice a bit error in the counter
// itself via the arithmetic code.
type countingLock struct {
	v atomic.Int64
}

// newCountingLock returns a lock in the unlocked state (v == anbB).
func newCountingLock() *countingLock {
	l := &countingLock{}
	l.v.Store(anbB)
	return l
}

// initAndLock sets the lock to its single-holder locked state. Used when
// bootstrapping a static companion, whose first Generate runs while
// logically "already locked" per SPEC_FULL.md §3.
func (l *countingLock) initAndLock() {
	l.v.Store(anbA + anbB)
}

func (l *countingLock) lock() {
	l.v.Add(anbA)
}

func (l *countingLock) unlock() {
	l.v.Add(-anbA)
}

// checkCode verifies the ANB invariant, signaling LockErrorHook on
// violation. Returns whether the code is healthy.
func (l *countingLock) checkCode() bool {
	x := l.v.Load()
	if (x-anbB)%anbA != 0 {
		signalLockError()
		return false
	}
	return true
}

// isUnlocked reports whether the lock is in its neutral (no holders)
// state. Per spec, the ANB code is only re-checked on the path that would
// otherwise report "locked", since a counter that reads exactly anbB is
// trivially code-valid.
func (l *countingLock) isUnlocked() bool {
	if l.v.Load() == anbB {
		return true
	}
	l.checkCode()
	return false
}

// isLocked reports whether more than one holder is present.
func (l *countingLock) isLocked() bool {
	return l.v.Load() != anbA+anbB
}
