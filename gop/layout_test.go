package gop

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func typeOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

type layoutFixture struct {
	width     int32
	height    int32
	Label     int32  // exported, excluded by default
	cache     int64  `gop:"ignore"`
	instances int32  `gop:"static"`
}

func TestPlanLayoutInstance(t *testing.T) {
	cfg := DefaultConfig()
	tbl, total, err := planLayout(typeOf[layoutFixture](), cfg, variantInstance)
	if err != nil {
		t.Fatalf("planLayout: %v", err)
	}

	var names []string
	for _, m := range tbl {
		names = append(names, m.name)
	}

	want := []string{"width", "height"}
	if diff := cmp.Diff(want, names, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("participating members mismatch (-want +got):\n%s", diff)
	}
	if total != 8 {
		t.Errorf("total = %d, want 8", total)
	}
}

func TestPlanLayoutStatic(t *testing.T) {
	cfg := DefaultConfig()
	tbl, total, err := planLayout(typeOf[layoutFixture](), cfg, variantStatic)
	if err != nil {
		t.Fatalf("planLayout: %v", err)
	}
	if len(tbl) != 1 || tbl[0].name != "instances" {
		t.Fatalf("static table = %+v, want exactly the instances field", tbl)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
}

func TestPlanLayoutAllowPublicMembers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowPublicMembers = true
	tbl, _, err := planLayout(typeOf[layoutFixture](), cfg, variantInstance)
	if err != nil {
		t.Fatalf("planLayout: %v", err)
	}

	found := false
	for _, m := range tbl {
		if m.name == "Label" {
			found = true
		}
	}
	if !found {
		t.Error("Label should participate once AllowPublicMembers is set")
	}
}

type sliceFixture struct {
	tags []string
}

func TestPlanLayoutRejectsSliceOnInstance(t *testing.T) {
	_, _, err := planLayout(typeOf[sliceFixture](), DefaultConfig(), variantInstance)
	if err == nil {
		t.Fatal("expected ErrUnsizedMember, got nil")
	}
}

func TestPlanLayoutRejectsNonStruct(t *testing.T) {
	_, _, err := planLayout(typeOf[int](), DefaultConfig(), variantInstance)
	if err == nil {
		t.Fatal("expected ErrNotStruct, got nil")
	}
}
