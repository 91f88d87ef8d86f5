// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available methods, from cheapest to highest quality:
//
//   - [Nearest]: integer truncation, bit-exact at integer delays
//   - [Linear2]: 2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default for modulated delays)
//
// The [Mode] enum allows selecting the algorithm at the fractional read site,
// e.g. by [github.com/cwbudde/algo-delay/dsp/delayengine.Engine.InterpolateSample].
package interp
