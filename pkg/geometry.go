package bbox

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

type SignalType int

const (
	MysteryType SignalType = iota
	Induction
	Collection
)

func (s SignalType) String() string {
	switch s {
	case Induction:
		return "Induction"
	case Collection:
		return "Collection"
	default:
		return "Unknown"
	}
}

// PlaneID locates a wire plane inside the detector.
type PlaneID struct {
	Cryostat int
	TPC      int
	Plane    int
}

func (p PlaneID) String() string {
	return fmt.Sprintf("C:%d T:%d P:%d", p.Cryostat, p.TPC, p.Plane)
}

type WireID struct {
	PlaneID
	Wire int
}

// Geometry is the part of the detector description the filter needs.
type Geometry interface {
	// ChannelToWire returns the first wire read out by the channel, false
	// if the channel is not mapped.
	ChannelToWire(channel uint32) (WireID, bool)
	SignalType(channel uint32) SignalType
	// NWires returns the number of wires in the plane, zero for an unknown
	// plane.
	NWires(plane PlaneID) int
}

type WireMappingEntry struct {
	Channel    int        `db:"Channel"`
	Cryostat   int        `db:"Cryostat"`
	TPC        int        `db:"TPC"`
	Plane      int        `db:"Plane"`
	Wire       int        `db:"Wire"`
	SignalType SignalType `db:"SignalType"`
}

type channelInfo struct {
	wire       WireID
	signalType SignalType
}

// ChannelMap is a Geometry backed by an explicit channel to wire table.
// It is read-only once built.
type ChannelMap struct {
	channels   map[uint32]channelInfo
	nWires     map[PlaneID]int
	planeTypes map[PlaneID]SignalType
}

// NewChannelMap builds a ChannelMap. A channel listed twice keeps its last
// entry. The number of wires of a plane is its highest wire number plus one.
func NewChannelMap(entries []WireMappingEntry) (*ChannelMap, error) {
	cm := &ChannelMap{
		channels:   make(map[uint32]channelInfo, len(entries)),
		nWires:     make(map[PlaneID]int),
		planeTypes: make(map[PlaneID]SignalType),
	}
	for _, entry := range entries {
		if entry.Channel < 0 || entry.Wire < 0 {
			return nil, fmt.Errorf("invalid wire mapping entry: channel %d, wire %d", entry.Channel, entry.Wire)
		}
		plane := PlaneID{Cryostat: entry.Cryostat, TPC: entry.TPC, Plane: entry.Plane}
		cm.channels[uint32(entry.Channel)] = channelInfo{
			wire:       WireID{PlaneID: plane, Wire: entry.Wire},
			signalType: entry.SignalType,
		}
		cm.planeTypes[plane] = entry.SignalType
		if entry.Wire+1 > cm.nWires[plane] {
			cm.nWires[plane] = entry.Wire + 1
		}
	}
	return cm, nil
}

// LArIATChannelMap returns the LArIAT TPC readout: channels 0-239 are the
// induction plane and channels 240-479 the collection plane.
func LArIATChannelMap() *ChannelMap {
	const wiresPerPlane = 240
	entries := make([]WireMappingEntry, 0, 2*wiresPerPlane)
	for wire := 0; wire < wiresPerPlane; wire++ {
		entries = append(entries, WireMappingEntry{
			Channel:    wire,
			Plane:      0,
			Wire:       wire,
			SignalType: Induction,
		})
	}
	for wire := 0; wire < wiresPerPlane; wire++ {
		entries = append(entries, WireMappingEntry{
			Channel:    wiresPerPlane + wire,
			Plane:      1,
			Wire:       wire,
			SignalType: Collection,
		})
	}
	cm, _ := NewChannelMap(entries)
	return cm
}

func (cm *ChannelMap) ChannelToWire(channel uint32) (WireID, bool) {
	info, ok := cm.channels[channel]
	return info.wire, ok
}

func (cm *ChannelMap) SignalType(channel uint32) SignalType {
	return cm.channels[channel].signalType
}

func (cm *ChannelMap) NWires(plane PlaneID) int {
	return cm.nWires[plane]
}

func (cm *ChannelMap) NChannels() int {
	return len(cm.channels)
}

// Planes lists the known planes ordered by cryostat, TPC and plane.
func (cm *ChannelMap) Planes() []PlaneID {
	planes := maps.Keys(cm.nWires)
	sort.Slice(planes, func(i, j int) bool {
		a, b := planes[i], planes[j]
		if a.Cryostat != b.Cryostat {
			return a.Cryostat < b.Cryostat
		}
		if a.TPC != b.TPC {
			return a.TPC < b.TPC
		}
		return a.Plane < b.Plane
	})
	return planes
}

// PlaneSignalType returns the signal type of the last channel mapped to the
// plane, MysteryType for an unknown plane.
func (cm *ChannelMap) PlaneSignalType(plane PlaneID) SignalType {
	return cm.planeTypes[plane]
}

// CheckReadout fails unless the map has at least one induction and one
// collection plane.
func (cm *ChannelMap) CheckReadout() error {
	found := make(map[SignalType]bool)
	for _, signalType := range maps.Values(cm.planeTypes) {
		found[signalType] = true
	}
	var missing []string
	for _, signalType := range []SignalType{Induction, Collection} {
		if !found[signalType] {
			missing = append(missing, signalType.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("channel map has no %s plane", strings.Join(missing, " or "))
	}
	return nil
}
