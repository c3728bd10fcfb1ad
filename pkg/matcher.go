package bbox

// MatchResult tells whether a wire lies inside the event box and which ticks
// of its signal to keep. The ticks are not clamped to the signal length.
type MatchResult struct {
	InBox     bool
	TickStart int
	TickEnd   int
}

// MatchWire picks the box of the wire's family and checks the wire number
// against its wire range, clamped to [0, MaxWire]. Each endpoint is clamped
// on its own, so a box with start > end matches no wire.
func MatchWire(c ChannelClassification, box EventBox) MatchResult {
	planeBox := box.Induction
	if c.Family == Collection {
		planeBox = box.Collection
	}

	wireStart := clamp(planeBox.WireStart, 0, c.MaxWire)
	wireEnd := clamp(planeBox.WireEnd, 0, c.MaxWire)

	return MatchResult{
		InBox:     c.Wire >= wireStart && c.Wire <= wireEnd,
		TickStart: planeBox.TickStart,
		TickEnd:   planeBox.TickEnd,
	}
}

// clamp bounds value to [lo, hi]. When hi < lo the result is lo.
func clamp(value, lo, hi int) int {
	if value > hi {
		value = hi
	}
	if value < lo {
		value = lo
	}
	return value
}
