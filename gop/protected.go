package gop

import "unsafe"

// Protected wraps a value of T together with its auxiliary redundancy
// block A(T). The aux bytes are allocated once, at construction, sized
// from the Descriptor's planner output, and never re-sliced or shared —
// preserving the "owned exclusively by its T" invariant even though Go
// cannot give Protected[T] a single fixed-size co-located field the way a
// C++ template can (see SPEC_FULL.md §3).
type Protected[T any] struct {
	desc  *Descriptor[T]
	value T
	aux   []byte
	state auxState
	seed  uint64
}

// New constructs a Protected[T] around initial and immediately generates
// its redundancy, so the returned value always starts consistent (I1).
func New[T any](desc *Descriptor[T], initial T) *Protected[T] {
	p := &Protected[T]{
		desc:  desc,
		value: initial,
		seed:  uint64(desc.instanceSeed),
	}

	eng := desc.engine()
	p.aux = make([]byte, eng.auxSize(desc.instanceTable, desc.instanceTotal))

	if desc.cfg.Synchronized {
		p.state.lock = newCountingLock()
	}

	p.state.beginMutate()
	p.Generate()

	return p
}

// Value returns a pointer to the wrapped target. Callers that mutate
// through it must bracket the mutation with BeginMutate/Generate (or use
// Mutate), per the dirty-bracket invariant (I3).
func (p *Protected[T]) Value() *T {
	return &p.value
}

// BeginMutate marks the instance dirty ahead of an in-place mutation of
// Value(). It must be followed by a call to Generate once the mutation is
// complete.
func (p *Protected[T]) BeginMutate() {
	p.state.beginMutate()
}

// Generate rebuilds the auxiliary redundancy block from the target's
// current bytes, then increments the version and clears the dirty marker.
// Callers must have called BeginMutate (directly, or via Mutate) before
// mutating Value() and call Generate exactly once afterward.
func (p *Protected[T]) Generate() {
	p.desc.engine().generate(p.desc.instanceTable, unsafe.Pointer(&p.value), p.aux, p.seed)
	p.state.finishGenerate()
}

// Mutate brackets fn's in-place edit of the target with BeginMutate and
// Generate, implementing the "dirty -> mutate -> generate -> inc_version
// -> reset_dirty" ordering in one call.
func (p *Protected[T]) Mutate(fn func(*T)) {
	p.BeginMutate()
	fn(&p.value)
	p.Generate()
}

// Check verifies the target against its redundancy. A mismatch observed
// while a writer holds the dirty marker, or while the version has moved
// since the check began, is a snapshot of a legitimate in-flight mutation
// and is reported as OK without invoking repair (I3, P6). Any other
// mismatch is real corruption and is handed to the scheme's repair under
// the process-wide repair lock.
func (p *Protected[T]) Check() Verdict {
	eng := p.desc.engine()

	_, v0 := p.state.snapshot()

	if eng.detect(p.desc.instanceTable, unsafe.Pointer(&p.value), p.aux, p.seed) {
		return OK
	}

	dirty, v := p.state.snapshot()
	if dirty != 0 || v != v0 {
		return OK
	}

	return runRepair(&p.state, v0, func() Verdict {
		return eng.repair(p.desc.instanceTable, unsafe.Pointer(&p.value), p.aux, p.seed)
	})
}

// GetChecksum returns the scheme's stored checksum value (0 for schemes
// with no single scalar checksum, i.e. TMR and Hamming) and whether it is
// fresh, meaning no writer currently holds the dirty marker.
func (p *Protected[T]) GetChecksum() (value uint64, fresh bool) {
	dirty, _ := p.state.snapshot()
	return p.desc.engine().checksum(p.aux), dirty == 0
}

// Version returns the current version counter v.
func (p *Protected[T]) Version() uint64 {
	_, v := p.state.snapshot()
	return v
}

// Lock, Unlock, IsLocked and IsUnlocked delegate to the instance's
// counting lock. They are no-ops (the null-object path) on a target that
// was not registered with WithSynchronized(true).
func (p *Protected[T]) Lock() {
	if p.state.lock != nil {
		p.state.lock.lock()
	}
}

func (p *Protected[T]) Unlock() {
	if p.state.lock != nil {
		p.state.lock.unlock()
	}
}

func (p *Protected[T]) IsLocked() bool {
	if p.state.lock == nil {
		return false
	}
	return p.state.lock.isLocked()
}

func (p *Protected[T]) IsUnlocked() bool {
	if p.state.lock == nil {
		return true
	}
	return p.state.lock.isUnlocked()
}
