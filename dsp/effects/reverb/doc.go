// Package reverb implements a dense stereo plate reverberation network
// after Jon Dattorro's "Effect Design Part 1" (CCRMA, Stanford).
//
// The network is a fixed figure-of-eight tank: a pre-delayed, band-limited
// mono sum passes four series allpass input diffusors, feeds two
// cross-coupled feedback accumulators, and each tank half runs a modulated
// decay diffusor, two long delay lines, a one-pole damper and a late
// diffusor. The wet stereo pair is a sign-alternating combination of taps
// picked at fixed offsets across both halves.
//
// The topology's delay lengths are structural constants of the design; only
// the pre-delay, the tap ring capacities and the excursion clock scale with
// the sample rate, which is why a sample-rate change rebuilds the network
// and discards the tail.
package reverb
