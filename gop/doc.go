// Package gop implements the Generic Object Protection core: a generic
// wrapper that attaches per-instance redundancy to arbitrary struct types
// ("targets") so that in-memory bit errors in their unexported members can
// be detected and, depending on the chosen scheme, corrected.
//
// A target is registered once, from its owning package's init(), via
// Register. Registration walks the target's fields with reflect, computes
// a layout of participating members, and panics on configuration errors
// (an unsized trailing slice on a per-instance target, conflicting embedded
// locks, and similar build-time mistakes) so that a misconfigured target
// never reaches main.
//
// Protected[T] embeds a target value and its auxiliary redundancy block.
// Check verifies the target against its redundancy and repairs it in place
// when real corruption (not a concurrent, legitimate write) is detected.
// Generate rebuilds the redundancy block from the current target value and
// must be called after every mutation.
package gop
