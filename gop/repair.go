package gop

import "sync"

// repairMu is the single process-wide resource serializing repair across
// every Protected[T] in the process — the Go substitute for the original's
// scoped preemption block (disabling interrupts on bare metal, or a
// process-wide mutex on a hosted platform). Go offers no library-reachable
// way to disable scheduler preemption, so a mutex is the faithful
// equivalent; see SPEC_FULL.md §4.6.
var repairMu sync.Mutex

// runRepair acquires the repair-serializing lock, re-validates that the
// mismatch observed before acquiring it is still real (no writer holds
// dirty, and the version hasn't moved since v0), and only then invokes the
// scheme-specific repair. If the recheck fails, somebody else already
// resolved it, or a legitimate mutation is in flight, and we report OK
// without touching anything.
func runRepair(state *auxState, v0 uint64, fn func() Verdict) Verdict {
	repairMu.Lock()
	defer repairMu.Unlock()

	dirty, ver := state.snapshot()
	if dirty != 0 || ver != v0 {
		return OK
	}

	verdict := fn()
	if verdict == Corrected {
		state.ver.Add(1)
		signalCorrected()
	}
	return verdict
}
