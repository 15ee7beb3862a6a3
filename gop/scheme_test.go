package gop

import (
	"testing"
	"unsafe"
)

// rect is the scheme-test fixture: two int32 members, matching the
// Rectangle(width, height) example from spec.md §8 scenario 1.
type rect struct {
	width  int32
	height int32
}

func planRect(t *testing.T, cfg Config) ([]member, uintptr) {
	t.Helper()
	tbl, total, err := planLayout(typeOf[rect](), cfg, variantInstance)
	if err != nil {
		t.Fatalf("planLayout: %v", err)
	}
	return tbl, total
}

func allSchemes() []Scheme {
	return []Scheme{SchemeSumDMR, SchemeCRCDMR, SchemeCRC, SchemeTMR, SchemeHamming}
}

func newEngineFor(s Scheme, tbl []member, total uintptr) engine {
	if s != SchemeHamming {
		return engineFor(s, nil, 0)
	}
	m := int(alignUpWords(total))
	dim := hammingDimFor(m)
	return engineFor(s, generateColumns(m, dim), dim)
}

// TestRoundTrip is P1: after generate, detect reports consistent.
func TestRoundTrip(t *testing.T) {
	tbl, total := planRect(t, DefaultConfig())

	for _, s := range allSchemes() {
		s := s
		t.Run(s.String(), func(t *testing.T) {
			eng := newEngineFor(s, tbl, total)
			r := rect{width: 2, height: 3}
			aux := make([]byte, eng.auxSize(tbl, total))

			eng.generate(tbl, unsafe.Pointer(&r), aux, 1)
			if !eng.detect(tbl, unsafe.Pointer(&r), aux, 1) {
				t.Error("detect reported mismatch on a freshly generated target")
			}
		})
	}
}

// TestIdempotence is P2: generate;generate leaves the same value-state.
func TestIdempotence(t *testing.T) {
	tbl, total := planRect(t, DefaultConfig())

	for _, s := range allSchemes() {
		s := s
		t.Run(s.String(), func(t *testing.T) {
			eng := newEngineFor(s, tbl, total)
			r := rect{width: 7, height: 11}
			aux := make([]byte, eng.auxSize(tbl, total))

			eng.generate(tbl, unsafe.Pointer(&r), aux, 1)
			first := append([]byte(nil), aux...)

			eng.generate(tbl, unsafe.Pointer(&r), aux, 1)
			if !eng.detect(tbl, unsafe.Pointer(&r), aux, 1) {
				t.Fatal("detect reported mismatch after a second generate")
			}
			for i := range first {
				if first[i] != aux[i] {
					t.Fatalf("aux differs after a second generate at byte %d: %d != %d", i, first[i], aux[i])
				}
			}
		})
	}
}

// TestSingleBitCorrection is P3.
func TestSingleBitCorrection(t *testing.T) {
	tbl, total := planRect(t, DefaultConfig())

	for _, s := range allSchemes() {
		s := s
		t.Run(s.String(), func(t *testing.T) {
			eng := newEngineFor(s, tbl, total)
			r := rect{width: 2, height: 3}
			aux := make([]byte, eng.auxSize(tbl, total))
			eng.generate(tbl, unsafe.Pointer(&r), aux, 1)

			r.height ^= 1 // flip the low bit of height

			if eng.detect(tbl, unsafe.Pointer(&r), aux, 1) {
				t.Fatal("detect missed a single-bit flip")
			}

			verdict := eng.repair(tbl, unsafe.Pointer(&r), aux, 1)

			if s == SchemeCRC {
				if verdict != Unrecoverable {
					t.Fatalf("CRC-only should never correct, got %s", verdict)
				}
				return
			}

			if verdict != Corrected {
				t.Fatalf("repair verdict = %s, want Corrected", verdict)
			}
			if r.height != 3 {
				t.Fatalf("height = %d after repair, want 3", r.height)
			}
		})
	}
}

// TestHammingDoubleBit is P4: a two-bit error is corrected or flagged
// Unrecoverable, never silently accepted.
func TestHammingDoubleBit(t *testing.T) {
	tbl, total := planRect(t, DefaultConfig())
	eng := newEngineFor(SchemeHamming, tbl, total)

	r := rect{width: 2, height: 3}
	aux := make([]byte, eng.auxSize(tbl, total))
	eng.generate(tbl, unsafe.Pointer(&r), aux, 1)

	r.width ^= 1
	r.height ^= 1 << 5

	if eng.detect(tbl, unsafe.Pointer(&r), aux, 1) {
		t.Fatal("detect missed a double-bit flip")
	}

	verdict := eng.repair(tbl, unsafe.Pointer(&r), aux, 1)
	switch verdict {
	case Corrected:
		if r.width != 2 || r.height != 3 {
			t.Fatalf("claimed Corrected but values are wrong: width=%d height=%d", r.width, r.height)
		}
	case Unrecoverable:
		// acceptable: the columns for these two bits did not collide.
	default:
		t.Fatalf("double-bit error silently accepted as %s", verdict)
	}
}

// TestTMRTripleDisagreement is spec.md §8 scenario 5, exercised here as a
// white-box test since it corrupts the scheme's private shadow bytes
// directly — something no caller of the public Protected[T] API can do.
func TestTMRTripleDisagreement(t *testing.T) {
	tbl, total := planRect(t, DefaultConfig())
	eng := tmrEngine{}

	r := rect{width: 2, height: 3}
	aux := make([]byte, eng.auxSize(tbl, total))
	eng.generate(tbl, unsafe.Pointer(&r), aux, 1)

	r.height = 100 // T diverges from both shadows
	aux[0] ^= 0xFF // shadow1's copy of width diverges from shadow2's

	verdict := eng.repair(tbl, unsafe.Pointer(&r), aux, 1)
	if verdict != Unrecoverable {
		t.Fatalf("verdict = %s, want Unrecoverable", verdict)
	}
}
