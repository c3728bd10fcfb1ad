package bbox

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Reader reads events from a file with the layout produced by Writer.
type Reader struct {
	File        *hdf5.File
	Filename    string
	WireSignals *hdf5.Dataset
	Events      []EventDataHDF5
	Channels    []ChannelHDF5
	NTicks      int
}

func NewReader(filename string) (*Reader, error) {
	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	reader := &Reader{File: file, Filename: filename}

	if reader.Events, err = readTableAt[EventDataHDF5](file, "/Run/events"); err != nil {
		return nil, errors.Join(err, reader.Close())
	}
	if reader.Channels, err = readTableAt[ChannelHDF5](file, "/Wires/channels"); err != nil {
		return nil, errors.Join(err, reader.Close())
	}

	reader.WireSignals, err = file.OpenDataset("/RD/wires")
	if err != nil {
		return nil, errors.Join(fmt.Errorf("error opening wires dataset: %w", err), reader.Close())
	}
	dims, err := datasetDims(reader.WireSignals)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("error reading wires shape: %w", err), reader.Close())
	}
	if len(dims) != 3 || int(dims[0]) != len(reader.Events) || int(dims[1]) != len(reader.Channels) {
		return nil, errors.Join(fmt.Errorf("wires shape %v does not match %d events and %d channels",
			dims, len(reader.Events), len(reader.Channels)), reader.Close())
	}
	reader.NTicks = int(dims[2])

	if verbosity > 0 {
		message := fmt.Sprintf("Opened %s: %d events, %d channels, %d ticks",
			filename, len(reader.Events), len(reader.Channels), reader.NTicks)
		logger.Info(message, "reader")
	}
	return reader, nil
}

func readTableAt[T any](file *hdf5.File, path string) ([]T, error) {
	dset, err := file.OpenDataset(path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}
	defer dset.Close()
	rows, err := readTable[T](dset)
	if err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", path, err)
	}
	return rows, nil
}

func (r *Reader) NEvents() int {
	return len(r.Events)
}

func (r *Reader) EventID(i int) EventID {
	evt := r.Events[i]
	return EventID{Run: int(evt.run), Subrun: int(evt.subrun), Event: int(evt.event)}
}

// ReadEvent reads the i-th event of the file. The wire signals share one
// buffer, each capped at its own length.
func (r *Reader) ReadEvent(i int) (EventType, error) {
	if i < 0 || i >= len(r.Events) {
		return EventType{}, fmt.Errorf("event index %d out of range [0, %d)", i, len(r.Events))
	}
	data, err := read3dArray(r.WireSignals, i, len(r.Channels), r.NTicks)
	if err != nil {
		return EventType{}, err
	}

	event := EventType{
		ID:    r.EventID(i),
		Wires: make([]Wire, len(r.Channels)),
	}
	for ch, channel := range r.Channels {
		event.Wires[ch] = Wire{
			Channel: uint32(channel.channel),
			View:    View(channel.view),
			Signal:  data[ch*r.NTicks : (ch+1)*r.NTicks : (ch+1)*r.NTicks],
		}
	}
	return event, nil
}

func (r *Reader) Close() error {
	var errs []error
	if r.WireSignals != nil {
		if err := r.WireSignals.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing wires dataset: %w", err))
		}
	}
	if err := r.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}
	return errors.Join(errs...)
}
