// Package response captures frequency responses of per-sample processors.
//
// It excites a processor with a unit impulse and transforms the captured
// response into a single-sided magnitude curve. The curve resolution follows
// the FFT size, so longer captures and larger minimum sizes sharpen narrow
// features like resonance peaks.
package response
