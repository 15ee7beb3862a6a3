package gop

import (
	"fmt"
	"io"
	"unsafe"
)

// TMRDebugLog receives one line per correction when a target is registered
// with SchemeTMRDebug, naming the corrected member — the Go analogue of the
// printf trace the original TMR_DEBUG scheme emits. Defaults to io.Discard;
// point it at os.Stderr (or anywhere) to see the trace.
var TMRDebugLog io.Writer = io.Discard

// tmrEngine is triple modular redundancy: the live target plus two shadow
// copies. aux layout: [0:total) shadow1, [total:2*total) shadow2.
type tmrEngine struct {
	debug bool
}

func (tmrEngine) auxSize(_ []member, total uintptr) int {
	return 2 * int(total)
}

func (e tmrEngine) shadows(total uintptr, aux []byte) (shadow1, shadow2 []byte) {
	return aux[:total], aux[total : 2*total]
}

func (e tmrEngine) generate(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) {
	total := uintptr(len(aux)) / 2
	shadow1, shadow2 := e.shadows(total, aux)
	for _, m := range tbl {
		src := memberBytes(t, m)
		copy(shadowBytes(shadow1, m), src)
		copy(shadowBytes(shadow2, m), src)
	}
}

func (e tmrEngine) detect(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) bool {
	total := uintptr(len(aux)) / 2
	shadow1, _ := e.shadows(total, aux)
	for _, m := range tbl {
		if !bytesEqual(memberBytes(t, m), shadowBytes(shadow1, m)) {
			return false
		}
	}
	return true
}

func (e tmrEngine) repair(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) Verdict {
	total := uintptr(len(aux)) / 2
	shadow1, shadow2 := e.shadows(total, aux)

	shadowsAgree := true
	tMatchesShadow2 := true
	for _, m := range tbl {
		s1 := shadowBytes(shadow1, m)
		s2 := shadowBytes(shadow2, m)
		tb := memberBytes(t, m)
		if !bytesEqual(s1, s2) {
			shadowsAgree = false
		}
		if !bytesEqual(tb, s2) {
			tMatchesShadow2 = false
		}
	}

	switch {
	case shadowsAgree:
		// T is faulty; both shadows agree on the truth.
		for _, m := range tbl {
			copy(memberBytes(t, m), shadowBytes(shadow1, m))
			if e.debug {
				fmt.Fprintf(TMRDebugLog, "gop: corrected member %q\n", m.name)
			}
		}
		return Corrected

	case tMatchesShadow2:
		// shadow1 is the odd one out; T is trusted. Repair of shadow1 is
		// deferred to the next Generate, which overwrites it anyway — we
		// do not patch it here, matching the original scheme's documented
		// behavior.
		return OK

	default:
		// Three-way disagreement: nothing trustworthy to recover from.
		return Unrecoverable
	}
}

func (tmrEngine) checksum(_ []byte) uint64 {
	// TMR has no scalar checksum value; callers that need a fingerprint
	// should use a CRC-bearing scheme instead.
	return 0
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
