package gop

import "errors"

// Registration-time (build-time) errors. Register panics with one of these
// wrapped in context; none of them can occur once a Descriptor exists.
var (
	// ErrNotStruct is raised when Register is instantiated on a non-struct type.
	ErrNotStruct = errors.New("gop: target must be a struct")

	// ErrUnsizedMember is raised when a per-instance target carries a slice
	// field that would otherwise participate — the Go analogue of an
	// unsized trailing array, which the spec rejects at build time.
	ErrUnsizedMember = errors.New("gop: unsized (slice) member not allowed on a per-instance target")

	// ErrMultipleLocks is raised when more than one top-level field on a
	// target carries the `gop:"lock"` tag; only the innermost lock may be
	// "real" (see Locker base-class traversal rule).
	ErrMultipleLocks = errors.New("gop: target requests more than one counting lock")

	// ErrAlreadyRegistered is raised by a second Register call for the same
	// Go type: targets are fixed at build time and never re-registered.
	ErrAlreadyRegistered = errors.New("gop: target type already registered")
)
