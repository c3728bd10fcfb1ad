package bbox

import "fmt"

// EventID identifies one event inside a run.
type EventID struct {
	Run    int
	Subrun int
	Event  int
}

func (id EventID) String() string {
	return fmt.Sprintf("%d:%d:%d", id.Run, id.Subrun, id.Event)
}

// View is the readout view a wire belongs to, carried through untouched.
type View int32

// Wire is the calibrated signal of one readout channel, one sample per tick.
type Wire struct {
	Channel uint32
	View    View
	Signal  []float32
}

type EventType struct {
	ID    EventID
	Wires []Wire
}
