package gop

import (
	"sync"
	"testing"
	"time"
)

// protRect mirrors spec.md §8 scenario 1's Rectangle(width, height).
type protRect struct {
	width  int32
	height int32
}

// protSquare mirrors scenario 2's Square(radius=5), registered under
// Hamming.
type protSquare struct {
	width int32
}

// protCircleCount mirrors scenario 3's Circle.instances static companion.
type protCircleCount struct {
	instances int32 `gop:"static"`
}

// protIgnored exercises P8: a public member and an explicitly ignored
// member must never affect Check.
type protIgnored struct {
	secret int32
	Public int32
	cached int64 `gop:"ignore"`
}

// protEmpty exercises scenario 4: no participating members at all.
type protEmpty struct{}

// protRectWriterMask and protRectRace are distinct types from protRect: a
// Go type may only be Register'd once, and several tests in this file need
// their own independently-scheduled Protected[protRect]-shaped instance.
type protRectWriterMask struct {
	width  int32
	height int32
}

type protRectRace struct {
	width  int32
	height int32
}

var (
	protRectDesc           = Register[protRect](WithScheme(SchemeSumDMR))
	protSquareDesc         = Register[protSquare](WithScheme(SchemeHamming))
	protCircleCountDesc    = Register[protCircleCount](WithScheme(SchemeCRCDMR))
	protIgnoredDesc        = Register[protIgnored](WithScheme(SchemeSumDMR))
	protEmptyDesc          = Register[protEmpty](WithScheme(SchemeSumDMR))
	protRectWriterMaskDesc = Register[protRectWriterMask](WithScheme(SchemeCRCDMR))
	protRectRaceDesc       = Register[protRectRace](WithScheme(SchemeSumDMR))
)

func TestProtectedRoundTrip_Scenario1Rectangle(t *testing.T) {
	p := New(protRectDesc, protRect{width: 2, height: 3})

	p.Value().height ^= 0x00000001 // inject the literal fault from scenario 1

	var corrected int
	old := ErrorCorrectedHook
	ErrorCorrectedHook = func() { corrected++ }
	defer func() { ErrorCorrectedHook = old }()

	if v := p.Check(); v != Corrected {
		t.Fatalf("Check() = %s, want Corrected", v)
	}
	if p.Value().height != 3 {
		t.Fatalf("height = %d, want restored to 3", p.Value().height)
	}
	if corrected != 1 {
		t.Fatalf("error_corrected count = %d, want 1", corrected)
	}
}

func TestProtectedRoundTrip_Scenario2Square(t *testing.T) {
	p := New(protSquareDesc, protSquare{width: 5})
	v0 := p.Version()

	p.Value().width ^= 1 << 2

	if v := p.Check(); v != Corrected {
		t.Fatalf("Check() = %s, want Corrected", v)
	}
	if p.Value().width != 5 {
		t.Fatalf("width = %d, want restored to 5", p.Value().width)
	}
	if p.Version() != v0+1 {
		t.Fatalf("version = %d, want exactly %d", p.Version(), v0+1)
	}
}

func TestStaticProtected_Scenario3CircleInstances(t *testing.T) {
	sp := NewStatic(protCircleCountDesc, protCircleCount{instances: 1})

	sp.Value().instances = 8

	if v := sp.Check(); v != Corrected {
		t.Fatalf("Check() = %s, want Corrected", v)
	}
	if sp.Value().instances != 1 {
		t.Fatalf("instances = %d, want restored to 1", sp.Value().instances)
	}
	if _, fresh := sp.GetChecksum(); !fresh {
		t.Fatal("GetChecksum should report fresh=true once Check has settled")
	}
}

func TestProtected_Scenario4EmptyTarget(t *testing.T) {
	p := New(protEmptyDesc, protEmpty{})

	if v := p.Check(); v != OK {
		t.Fatalf("Check() on an empty target = %s, want OK", v)
	}
}

// TestWriterMask is P6: if the dirty marker is set throughout Check, Check
// must return OK regardless of the stored redundancy value.
func TestWriterMask(t *testing.T) {
	p := New(protRectWriterMaskDesc, protRectWriterMask{width: 1, height: 1})

	p.BeginMutate() // mark dirty and never call Generate in this test
	p.value.height = 99

	if v := p.Check(); v != OK {
		t.Fatalf("Check() while dirty = %s, want OK", v)
	}
}

// TestIgnoredMembersNoOp is P8.
func TestIgnoredMembersNoOp(t *testing.T) {
	p := New(protIgnoredDesc, protIgnored{secret: 1})

	p.value.Public = 42
	p.value.cached = 123456

	if v := p.Check(); v != OK {
		t.Fatalf("Check() after mutating non-participating members = %s, want OK", v)
	}
}

// TestConcurrentWriterRace is scenario 6: a Check racing a legitimate
// in-flight mutation must never misreport it as corruption.
func TestConcurrentWriterRace(t *testing.T) {
	p := New(protRectRaceDesc, protRectRace{width: 4, height: 7})

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		p.BeginMutate()
		time.Sleep(2 * time.Millisecond)
		p.value.height = 9
		p.Generate()
	}()

	time.Sleep(1 * time.Millisecond)
	if v := p.Check(); v != OK {
		t.Fatalf("Check() mid-write = %s, want OK", v)
	}
	wg.Wait()

	if v := p.Check(); v != OK {
		t.Fatalf("Check() after the writer finished = %s, want OK", v)
	}
}
