// Package stencil provides the core primitives for explicit two-dimensional
// stencil simulations on a fixed regular grid.
//
// The package defines the field storage, obstacle masking, boundary
// resolution and the double-buffered step engine:
//
//   - [Grid]: dense row-major scalar field with an optional legal value set
//   - [Mask]: obstacle field paired with a Grid
//   - [Resolver]: clamped or periodic neighbor lookup with obstacle insulation
//   - [Rule]: per-cell update strategy (see package rules)
//   - [Engine]: advances the field one step at a time and records the metric history
//
// All coordinates are (row, col). Engine methods take logical coordinates;
// Grid, Mask and Resolver work on storage coordinates, which differ by the
// rule's border padding.
//
// # Example
//
//	heat, _ := rules.NewHeat(0.2, 1.0)
//	e, _ := stencil.New(5, 5, heat)
//	_ = e.SetValue(2, 2, 100)
//	e.Step(false, true)
//	total := e.Metric()
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Each engine must be owned by a single
// goroutine; run independent engines for concurrent simulations.
package stencil
