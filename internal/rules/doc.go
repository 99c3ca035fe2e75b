// Package rules provides cell update models for the stencil engine.
//
// Each model implements [stencil.Rule] and is handed to [stencil.New] as a
// strategy value:
//
//   - [Heat]: forward-Euler heat diffusion on a 5- or 9-point Laplacian
//   - [Ripple]: single-cell pulses that propagate outward ring by ring
//   - [Average]: a smoothing example rule over plain in-bounds neighbors
//
// Models that keep per-cell state implement [stencil.Binder]; models with
// tunable parameters implement [stencil.Configurable].
package rules
