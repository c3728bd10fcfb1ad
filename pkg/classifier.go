package bbox

// ChannelClassification is what the matcher needs to know about a channel.
type ChannelClassification struct {
	Family SignalType // Collection or Induction
	Wire   int
	// MaxWire is the highest valid wire number of the channel's plane.
	MaxWire int
}

type Classifier struct {
	geometry Geometry
}

func NewClassifier(geometry Geometry) *Classifier {
	return &Classifier{geometry: geometry}
}

// Classify returns false when the geometry does not know the channel. Every
// plane that is not a collection plane is treated as induction.
func (c *Classifier) Classify(channel uint32) (ChannelClassification, bool) {
	wid, ok := c.geometry.ChannelToWire(channel)
	if !ok {
		return ChannelClassification{}, false
	}

	family := Induction
	if c.geometry.SignalType(channel) == Collection {
		family = Collection
	}

	return ChannelClassification{
		Family:  family,
		Wire:    wid.Wire,
		MaxWire: c.geometry.NWires(wid.PlaneID) - 1,
	}, true
}
