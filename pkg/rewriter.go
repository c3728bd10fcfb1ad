package bbox

// RewriteSignal returns a new signal of the same length as the input. Inside
// a box, ticks in [TickStart, TickEnd] (clamped to the signal) are copied and
// the rest are zeroed when zeroOutside is set. Outside a box the whole signal
// is zeroed, or copied when zeroOutside is not set. The input is never
// modified.
func RewriteSignal(signal []float32, match MatchResult, zeroOutside bool) []float32 {
	filtered := make([]float32, len(signal))

	if !match.InBox {
		if !zeroOutside {
			copy(filtered, signal)
		}
		return filtered
	}

	tickStart := clamp(match.TickStart, 0, len(signal)-1)
	tickEnd := clamp(match.TickEnd, 0, len(signal)-1)

	for tick, sample := range signal {
		inWindow := tick >= tickStart && tick <= tickEnd
		if inWindow || !zeroOutside {
			filtered[tick] = sample
		}
	}
	return filtered
}
