package bbox

import "fmt"

type FilterOptions struct {
	// ZeroOutside zeroes samples and wires outside the box. When false
	// they are passed through unchanged.
	ZeroOutside bool
	DebugMode   bool
}

// FilterStats counts what happened to the wires of one event.
type FilterStats struct {
	HasBox   bool
	Filtered int // wires inside the box, time window applied
	Zeroed   int // wires outside the box, fully zeroed
	Kept     int // wires passed through unchanged
	Unmapped int // wires whose channel has no geometry entry
}

// Filter applies the event bounding boxes to the wires of an event. A Filter
// holds no per-event state, and the table and geometry are only read, so
// several filters may share them across goroutines.
type Filter struct {
	table      *BoxTable
	classifier *Classifier
	options    FilterOptions
}

func NewFilter(table *BoxTable, geometry Geometry, options FilterOptions) *Filter {
	return &Filter{
		table:      table,
		classifier: NewClassifier(geometry),
		options:    options,
	}
}

// FilterEvent returns a new event with the filtered wires, in the input
// order. Events without a box are copied unchanged.
func (f *Filter) FilterEvent(event EventType) (EventType, FilterStats) {
	output := EventType{
		ID:    event.ID,
		Wires: make([]Wire, 0, len(event.Wires)),
	}
	var stats FilterStats

	if f.options.DebugMode {
		message := fmt.Sprintf("Processing event %v with %d input wires", event.ID, len(event.Wires))
		logger.Info(message, "filter")
	}

	box, ok := f.table.Lookup(event.ID)
	if !ok {
		for _, wire := range event.Wires {
			output.Wires = append(output.Wires, copyWire(wire))
		}
		stats.Kept = len(output.Wires)
		if f.options.DebugMode {
			message := fmt.Sprintf("No bounding box defined for event %v, passing through %d wires unchanged",
				event.ID, len(output.Wires))
			logger.Info(message, "filter")
		}
		return output, stats
	}
	stats.HasBox = true

	for _, wire := range event.Wires {
		match := f.matchWire(wire.Channel, box, &stats)
		switch {
		case match.InBox:
			stats.Filtered++
		case f.options.ZeroOutside:
			stats.Zeroed++
		default:
			stats.Kept++
		}
		output.Wires = append(output.Wires, Wire{
			Channel: wire.Channel,
			View:    wire.View,
			Signal:  RewriteSignal(wire.Signal, match, f.options.ZeroOutside),
		})
	}

	if f.options.DebugMode {
		message := fmt.Sprintf("Applied bounding box to event %v: %d wires filtered, %d wires zeroed, %d wires kept unchanged, %d unmapped",
			event.ID, stats.Filtered, stats.Zeroed, stats.Kept, stats.Unmapped)
		logger.Info(message, "filter")
	}
	return output, stats
}

// matchWire treats a channel without a wire as outside the box.
func (f *Filter) matchWire(channel uint32, box EventBox, stats *FilterStats) MatchResult {
	classification, ok := f.classifier.Classify(channel)
	if !ok {
		stats.Unmapped++
		if f.options.DebugMode {
			message := fmt.Sprintf("Channel %d has no wire in the geometry, treating it as outside the box", channel)
			logger.Info(message, "filter")
		}
		return MatchResult{InBox: false}
	}

	match := MatchWire(classification, box)
	if f.options.DebugMode && verbosity > 1 && match.InBox {
		message := fmt.Sprintf("%v wire %d (channel %d) in box, ticks [%d-%d]",
			classification.Family, classification.Wire, channel, match.TickStart, match.TickEnd)
		logger.Info(message, "filter")
	}
	return match
}

func copyWire(wire Wire) Wire {
	signal := make([]float32, len(wire.Signal))
	copy(signal, wire.Signal)
	return Wire{Channel: wire.Channel, View: wire.View, Signal: signal}
}
