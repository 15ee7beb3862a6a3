package gop

import (
	"fmt"
	"go/token"
	"reflect"
)

// wordSize is the machine word width, in bytes, used for self-alignment and
// for Hamming's word-granularity processing. All supported targets run on
// 64-bit machines.
const wordSize = 8

// variant distinguishes per-instance targets from their static (process-wide)
// companions, mirroring the instance/static split in the layout planner.
type variant int

const (
	variantInstance variant = iota
	variantStatic
)

// member describes one participating field after planning: its location in
// the live target (fieldOffset/size) and its placement in the auxiliary
// shadow/redundancy region (currentOffset/nextOffset).
type member struct {
	name          string
	fieldOffset   uintptr
	size          uintptr
	currentOffset uintptr
	nextOffset    uintptr
}

// isScalarKind reports whether k is a plain scalar the planner can fold
// word-wise (bool/int*/uint*/float*), excluding pointer-like and composite
// kinds.
func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// isScalarArray reports whether t is a fixed-size array of a scalar kind
// (the Go equivalent of "array-of-scalar").
func isScalarArray(t reflect.Type) bool {
	return t.Kind() == reflect.Array && isScalarKind(t.Elem().Kind())
}

// planLayout walks t's fields and builds the participating-member table for
// the given variant, per SPEC_FULL.md §4.2. It returns the table, the total
// (padded) byte extent participating members occupy in the auxiliary
// region, and an error if the target violates a build-time constraint.
func planLayout(t reflect.Type, cfg Config, v variant) ([]member, uintptr, error) {
	if t.Kind() != reflect.Struct {
		return nil, 0, fmt.Errorf("%w: got %s", ErrNotStruct, t.Kind())
	}

	var (
		table  []member
		offset uintptr
	)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.Tag.Get("gop") == "ignore" {
			continue
		}

		isStaticField := f.Tag.Get("gop") == "static"
		wantsStatic := v == variantStatic

		if isStaticField != wantsStatic {
			continue
		}

		exported := token.IsExported(f.Name)
		if exported && !cfg.AllowPublicMembers && v == variantInstance {
			continue
		}

		if f.Type.Kind() == reflect.Slice {
			if v == variantInstance {
				return nil, 0, fmt.Errorf("%w: field %q", ErrUnsizedMember, f.Name)
			}
			// Static companions never carry the live slice header itself;
			// a slice-typed static field simply does not participate.
			continue
		}

		scalar := isScalarKind(f.Type.Kind()) || isScalarArray(f.Type)
		if !scalar {
			continue
		}

		size := f.Type.Size()

		align := wordSize
		if int(size) < align {
			align = int(size)
		}
		if align > 0 {
			offset = alignUp(offset, uintptr(align))
		}

		m := member{
			name:          f.Name,
			fieldOffset:   f.Offset,
			size:          size,
			currentOffset: offset,
			nextOffset:    offset + size,
		}

		table = append(table, m)
		offset = m.nextOffset
	}

	return table, offset, nil
}

// alignUp rounds off up to the next multiple of align (align must be a
// power of two, or 0/1 for "no alignment").
func alignUp(off, align uintptr) uintptr {
	if align <= 1 {
		return off
	}
	return (off + align - 1) &^ (align - 1)
}

// alignUpWords rounds n up to the next multiple of wordSize and returns the
// result in words.
func alignUpWords(n uintptr) uintptr {
	return alignUp(n, wordSize) / wordSize
}
