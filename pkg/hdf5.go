package bbox

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type EventDataHDF5 struct {
	run    int32
	subrun int32
	event  int32
}

type ChannelHDF5 struct {
	channel int32
	view    int32
}

func createFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

// create3dArray creates a float32 [events, channels, ticks] array, extendible
// along the event axis with one event per chunk.
func create3dArray(group *hdf5.Group, name string, nChannels int, nTicks int, compression int) (*hdf5.Dataset, error) {
	dimsArray := []uint{0, uint(nChannels), uint(nTicks)}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDimsArray := []uint{uint(unlimitedDims), uint(nChannels), uint(nTicks)}
	chunks := []uint{1, uint(nChannels), uint(nTicks)}
	return createArray(group, name, hdf5.T_NATIVE_FLOAT, dimsArray, maxDimsArray, chunks, compression)
}

func createArray(group *hdf5.Group, name string, dtype *hdf5.Datatype, dims []uint, maxDims []uint,
	chunks []uint, compression int) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	if err := plist.SetChunk(chunks); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	if compression > 0 {
		if err := plist.SetDeflate(compression); err != nil {
			return nil, &ErrCreateTable{TableName: name, Err: err}
		}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compression int) (*hdf5.Dataset, error) {
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	return createArray(group, name, dtype, []uint{0}, []uint{uint(unlimitedDims)}, []uint{32768}, compression)
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, rowCounter int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, rowCounter)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, rowCounter int) error {
	length := uint(len(*data))
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating dataspace: %w", err)
	}
	defer dataspace.Close()

	// extend
	rowsInFile := uint(rowCounter)
	if err := dataset.Resize([]uint{rowsInFile + length}); err != nil {
		return fmt.Errorf("error resizing table: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting rows: %w", err)
	}

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		return fmt.Errorf("error writing rows: %w", err)
	}
	return nil
}

func write3dArray(dataset *hdf5.Dataset, data *[]float32, evtCounter int, nChannels int, nTicks int) error {
	// extend
	newsize := []uint{uint(evtCounter) + 1, uint(nChannels), uint(nTicks)}
	if err := dataset.Resize(newsize); err != nil {
		return fmt.Errorf("error resizing array: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evtCounter), 0, 0}
	count := []uint{1, uint(nChannels), uint(nTicks)}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting event: %w", err)
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return fmt.Errorf("error creating dataspace: %w", err)
	}
	defer dataspace.Close()

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		return fmt.Errorf("error writing event: %w", err)
	}
	return nil
}

func read3dArray(dataset *hdf5.Dataset, evtCounter int, nChannels int, nTicks int) ([]float32, error) {
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(evtCounter), 0, 0}
	count := []uint{1, uint(nChannels), uint(nTicks)}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return nil, fmt.Errorf("error selecting event: %w", err)
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating dataspace: %w", err)
	}
	defer dataspace.Close()

	// The array MUST be allocated before reading, HDF5 writes into it
	data := make([]float32, nChannels*nTicks)
	if err := dataset.ReadSubset(&data, dataspace, filespace); err != nil {
		return nil, fmt.Errorf("error reading event: %w", err)
	}
	return data, nil
}

func datasetDims(dataset *hdf5.Dataset) ([]uint, error) {
	space := dataset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	return dims, err
}

func readTable[T any](dataset *hdf5.Dataset) ([]T, error) {
	dims, err := datasetDims(dataset)
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected a 1D table, found %d dimensions", len(dims))
	}
	data := make([]T, dims[0])
	if len(data) == 0 {
		return data, nil
	}
	if err := dataset.Read(&data); err != nil {
		return nil, err
	}
	return data, nil
}
