// Package svf implements a trapezoidal state-variable filter after Andrew
// Simper's Cytomic papers, producing simultaneous low-pass, band-pass and
// high-pass outputs from one shared two-integrator recurrence.
//
// Two numerically distinct coefficient forms implement the same contract:
//
//   - [VariantTan]: coefficients from tan(pi*fc/fs)
//     (SvfLinearTrapOptimised2.pdf)
//   - [VariantSin]: coefficients from sin(w) and sin(2w), avoiding the
//     tangent's pole near Nyquist (SvfLinearTrapezoidalSin.pdf)
//
// Notch, peak and allpass responses are derived by linear combination of the
// three core outputs and selected through the [Mode] enum.
package svf
