package bbox

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer stores filtered events in an HDF5 file:
//
//	/Run/events      {run, subrun, event} per event
//	/Wires/channels  {channel, view} per channel, shared by all events
//	/RD/wires        float32 [event, channel, tick]
type Writer struct {
	File          *hdf5.File
	Filename      string
	Compression   int
	FirstEvt      bool
	RunGroup      *hdf5.Group
	WiresGroup    *hdf5.Group
	RDGroup       *hdf5.Group
	EventTable    *hdf5.Dataset
	ChannelsTable *hdf5.Dataset
	WireSignals   *hdf5.Dataset
	Channels      []ChannelHDF5
	NTicks        int
	EvtCounter    int
}

func NewWriter(filename string, compression int) (*Writer, error) {
	var err error
	writer := &Writer{Filename: filename, Compression: compression}
	logger.Info(fmt.Sprintf("Creating file: %s", filename), "writer")

	writer.File, err = createFile(filename)
	if err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.WiresGroup, err = createGroup(writer.File, "Wires"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.RDGroup, err = createGroup(writer.File, "RD"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.EventTable, err = createTable(writer.RunGroup, "events", EventDataHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.ChannelsTable, err = createTable(writer.WiresGroup, "channels", ChannelHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return writer, nil
}

// WriteEvent appends an event. The first event fixes the channel list and the
// number of ticks; later events must have the same shape.
func (w *Writer) WriteEvent(event *EventType) error {
	channels := make([]ChannelHDF5, len(event.Wires))
	nTicks := 0
	for i, wire := range event.Wires {
		channels[i] = ChannelHDF5{channel: int32(wire.Channel), view: int32(wire.View)}
		if i == 0 {
			nTicks = len(wire.Signal)
		} else if len(wire.Signal) != nTicks {
			return fmt.Errorf("event %v: channel %d has %d ticks, expected %d",
				event.ID, wire.Channel, len(wire.Signal), nTicks)
		}
	}

	if !w.FirstEvt {
		if len(channels) == 0 || nTicks == 0 {
			return fmt.Errorf("event %v: cannot create waveform array without wires or ticks", event.ID)
		}
		if err := writeArrayToTable(w.ChannelsTable, &channels, 0); err != nil {
			return fmt.Errorf("error writing channel table: %w", err)
		}
		dset, err := create3dArray(w.RDGroup, "wires", len(channels), nTicks, w.Compression)
		if err != nil {
			return err
		}
		w.WireSignals = dset
		w.Channels = channels
		w.NTicks = nTicks
		w.FirstEvt = true
	} else if err := w.checkShape(event, channels, nTicks); err != nil {
		return err
	}

	data := make([]float32, len(w.Channels)*w.NTicks)
	for i, wire := range event.Wires {
		copy(data[i*w.NTicks:(i+1)*w.NTicks], wire.Signal)
	}
	if err := write3dArray(w.WireSignals, &data, w.EvtCounter, len(w.Channels), w.NTicks); err != nil {
		return errors.Join(fmt.Errorf("error writing wires of event %v: %w", event.ID, err), w.truncate())
	}

	evtData := EventDataHDF5{
		run:    int32(event.ID.Run),
		subrun: int32(event.ID.Subrun),
		event:  int32(event.ID.Event),
	}
	if err := writeEntryToTable(w.EventTable, evtData, w.EvtCounter); err != nil {
		return errors.Join(fmt.Errorf("error writing event table: %w", err), w.truncate())
	}

	w.EvtCounter++
	return nil
}

// truncate shrinks the wires array and the event table back to the events
// fully written, so both keep one row per event.
func (w *Writer) truncate() error {
	var errs []error
	if err := w.WireSignals.Resize([]uint{uint(w.EvtCounter), uint(len(w.Channels)), uint(w.NTicks)}); err != nil {
		errs = append(errs, fmt.Errorf("error truncating wires array: %w", err))
	}
	if err := w.EventTable.Resize([]uint{uint(w.EvtCounter)}); err != nil {
		errs = append(errs, fmt.Errorf("error truncating event table: %w", err))
	}
	return errors.Join(errs...)
}

func (w *Writer) checkShape(event *EventType, channels []ChannelHDF5, nTicks int) error {
	if len(channels) != len(w.Channels) {
		return fmt.Errorf("event %v: %d wires, file has %d", event.ID, len(channels), len(w.Channels))
	}
	if nTicks != w.NTicks {
		return fmt.Errorf("event %v: %d ticks, file has %d", event.ID, nTicks, w.NTicks)
	}
	for i := range channels {
		if channels[i] != w.Channels[i] {
			return fmt.Errorf("event %v: channel order differs at position %d", event.ID, i)
		}
	}
	return nil
}

func (w *Writer) Close() error {
	logger.Info(fmt.Sprintf("Closing file hdf writer %s", w.Filename), "writer")
	var errs []error

	if w.WireSignals != nil {
		if err := w.WireSignals.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing wire signals: %w", err))
		}
	}
	if w.EventTable != nil {
		if err := w.EventTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing event table: %w", err))
		}
	}
	if w.ChannelsTable != nil {
		if err := w.ChannelsTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channels table: %w", err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.WiresGroup != nil {
		if err := w.WiresGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing wires group: %w", err))
		}
	}
	if w.RDGroup != nil {
		if err := w.RDGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing RD group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
