package main

import "github.com/cborchert/gop/gop"

// rectangle, square and circleInstanceCount are the three literal target
// types from spec.md §8's end-to-end scenarios. Each is registered once, at
// package init, the way a real target's owning package would register it —
// gopdemo plays both roles (target owner and demo driver) for the sake of
// having something concrete to point the repl and scenario runner at.

type rectangle struct {
	width  int32
	height int32
}

type square struct {
	width int32
}

// circleInstanceCount is the record type behind the shared static
// "Circle.instances" counter in scenario 3 — a process-wide value with no
// per-instance Circle object of its own.
type circleInstanceCount struct {
	instances int32 `gop:"static"`
}

var (
	rectangleDesc = gop.Register[rectangle](gop.WithScheme(gop.SchemeSumDMR))
	squareDesc    = gop.Register[square](gop.WithScheme(gop.SchemeHamming))
	circleDesc    = gop.Register[circleInstanceCount](gop.WithScheme(gop.SchemeCRCDMR))

	// circleInstances is the static companion from scenario 3: constructed
	// before main via this package-level var, starting at value=1.
	circleInstances = gop.NewStatic[circleInstanceCount](circleDesc, circleInstanceCount{instances: 1})

	// demoRect and demoSquare are the long-lived instances the repl's
	// show/flip/check/gen commands operate on.
	demoRect   = gop.New(rectangleDesc, rectangle{width: 2, height: 3})
	demoSquare = gop.New(squareDesc, square{width: 5})
)

// targetNames lists the demo targets the repl and scenario runner can address.
var targetNames = []string{"rectangle", "square", "circle-instances"}
