package gop

import (
	"fmt"
	"reflect"
	"sync"
)

// registeredTypes guards against a target type being Register'd twice.
// Targets are meant to be fixed at build time (see the package doc and the
// "no dynamic registration of new target types at runtime" non-goal); this
// is the runtime tripwire for that intent, tripped once, at init time, if
// violated.
var registeredTypes sync.Map // map[reflect.Type]struct{}

// Descriptor is the per-type layout and scheme plan produced by Register.
// It is the Go stand-in for the C++ template's compile-time member table:
// computed once per instantiation of Protected[T]/StaticProtected[T] and
// shared by every value of that T.
type Descriptor[T any] struct {
	cfg Config

	instanceTable []member
	instanceTotal uintptr

	staticTable []member
	staticTotal uintptr

	scheme      Scheme
	hammingCols []uint64
	hammingDim  int

	instanceSeed uint16
}

// Register plans a target type T once. Call it from T's owning package's
// init(), never in response to a live value — Register panics (a
// build-time failure, surfaced as early as possible) if T violates a
// layout constraint: a non-struct type, an unsized (slice) member on the
// per-instance layout, more than one `gop:"lock"`-tagged field, or a
// repeat registration of the same type.
func Register[T any](opts ...Option) *Descriptor[T] {
	var zero T
	t := reflect.TypeOf(zero)

	if _, loaded := registeredTypes.LoadOrStore(t, struct{}{}); loaded {
		panic(fmt.Errorf("%w: %s", ErrAlreadyRegistered, t))
	}

	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	instanceTable, instanceTotal, err := planLayout(t, cfg, variantInstance)
	if err != nil {
		panic(err)
	}
	staticTable, staticTotal, err := planLayout(t, cfg, variantStatic)
	if err != nil {
		panic(err)
	}

	if err := checkSingleLock(t); err != nil {
		panic(err)
	}

	scheme := resolveScheme(cfg.Scheme, instanceTotal)

	d := &Descriptor[T]{
		cfg:           cfg,
		instanceTable: instanceTable,
		instanceTotal: instanceTotal,
		staticTable:   staticTable,
		staticTotal:   staticTotal,
		scheme:        scheme,
		instanceSeed:  instanceHash16(t),
	}

	if scheme == SchemeHamming {
		m := int(alignUpWords(instanceTotal))
		d.hammingDim = hammingDimFor(m)
		d.hammingCols = generateColumns(m, d.hammingDim)
	}

	return d
}

// checkSingleLock enforces the base-class traversal rule's Go analogue:
// at most one top-level field of T may declare itself lock-bearing via the
// `gop:"lock"` struct tag.
func checkSingleLock(t reflect.Type) error {
	seen := false
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("gop") == "lock" {
			if seen {
				return fmt.Errorf("%w: %s", ErrMultipleLocks, t)
			}
			seen = true
		}
	}
	return nil
}

func (d *Descriptor[T]) engine() engine {
	return engineFor(d.scheme, d.hammingCols, d.hammingDim)
}
