// Package delayengine implements a circular delay buffer with independent
// read and write cursors and index-triggered cursor relocations ("jumps").
//
// A default jump from capacity back to 0 gives ordinary ring-buffer
// wraparound. Supplying additional jumps partitions one physical buffer into
// multiple logical banks: whenever a cursor's post-increment landing index
// matches a jump trigger, the cursor relocates to the jump destination
// instead. The package does not validate that a jump set covers the buffer;
// supplying a consistent set is the caller's responsibility.
//
// Fractional taps at a millisecond-denominated delay time are available
// through [Engine.InterpolateSample], enabling smooth delay-time modulation
// at audio rate.
package delayengine
