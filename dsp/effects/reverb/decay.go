package reverb

// ln10 is the natural logarithm of 10, used for dB-style conversions.
const ln10 = 2.302585092994045684017991454684

// decayForRT60 returns the per-loop decay factor such that a signal
// recirculating every loopSeconds falls by 60 dB within rt60 seconds:
//
//	decay = 10^(-3 * loopSeconds / rt60)
func decayForRT60(loopSeconds, rt60 float64) float64 {
	return mathExp(ln10 * (-3 * loopSeconds / rt60))
}

// rt60ForDecay inverts decayForRT60 for decay in (0, 1).
func rt60ForDecay(loopSeconds, decay float64) float64 {
	return -3 * loopSeconds * ln10 / mathLog(decay)
}
