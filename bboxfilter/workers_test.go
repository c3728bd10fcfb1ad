package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bbox "github.com/next-exp/bboxfilter_go/pkg"
)

func newTestFilter(t *testing.T) *bbox.Filter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxes.csv")
	content := "run,subrun,event,c_w_i,c_w_f,c_t_i,c_t_f,i_w_i,i_w_f,i_t_i,i_t_f\n10,2,5,3,8,2,3,0,4,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := bbox.LoadBoxTable(path)
	require.NoError(t, err)
	return bbox.NewFilter(table, bbox.LArIATChannelMap(), bbox.FilterOptions{ZeroOutside: true})
}

func TestWorker_FiltersAllJobs(t *testing.T) {
	filter := newTestFilter(t)
	jobs := make(chan bbox.EventType, 2)
	results := make(chan WorkerResult, 2)

	jobs <- bbox.EventType{
		ID:    bbox.EventID{Run: 10, Subrun: 2, Event: 5},
		Wires: []bbox.Wire{{Channel: 246, Signal: []float32{1, 2, 3, 4, 5}}},
	}
	jobs <- bbox.EventType{
		ID:    bbox.EventID{Run: 1, Subrun: 1, Event: 1},
		Wires: []bbox.Wire{{Channel: 246, Signal: []float32{1, 2, 3, 4, 5}}},
	}
	close(jobs)

	worker(1, filter, jobs, results)
	close(results)

	first := <-results
	assert.False(t, first.Error)
	assert.True(t, first.Stats.HasBox)
	assert.Equal(t, []float32{0, 0, 3, 4, 0}, first.Event.Wires[0].Signal)

	second := <-results
	assert.False(t, second.Stats.HasBox)
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, second.Event.Wires[0].Signal)
}

func TestFilterEvent_RecoversFromPanic(t *testing.T) {
	saved := logger
	logger = NewLogger(io.Discard, io.Discard)
	defer func() { logger = saved }()

	broken := bbox.NewFilter(nil, bbox.LArIATChannelMap(), bbox.FilterOptions{})
	event := bbox.EventType{ID: bbox.EventID{Run: 3, Subrun: 0, Event: 9}}

	result := filterEvent(1, broken, event)

	assert.True(t, result.Error)
	assert.Equal(t, event.ID, result.Event.ID)
}

type fakeSource struct {
	events []bbox.EventType
	failAt int
}

func (s fakeSource) NEvents() int {
	return len(s.events)
}

func (s fakeSource) ReadEvent(i int) (bbox.EventType, error) {
	if i == s.failAt {
		return bbox.EventType{}, errors.New("corrupted chunk")
	}
	return s.events[i], nil
}

func newFakeSource(n int, failAt int) fakeSource {
	source := fakeSource{failAt: failAt}
	for i := 0; i < n; i++ {
		source.events = append(source.events, bbox.EventType{ID: bbox.EventID{Run: 1, Event: i}})
	}
	return source
}

func drain(jobs <-chan bbox.EventType) []int {
	var ids []int
	for event := range jobs {
		ids = append(ids, event.ID.Event)
	}
	return ids
}

func TestSendEventsToWorkers_SkipAndMax(t *testing.T) {
	jobs := make(chan bbox.EventType, 10)
	config := Configuration{Skip: 2, MaxEvents: 3}

	err := sendEventsToWorkers(newFakeSource(10, -1), jobs, config)

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, drain(jobs))
}

func TestSendEventsToWorkers_StopsOnReadError(t *testing.T) {
	saved := logger
	logger = NewLogger(io.Discard, io.Discard)
	defer func() { logger = saved }()

	jobs := make(chan bbox.EventType, 10)
	config := Configuration{MaxEvents: 100}

	err := sendEventsToWorkers(newFakeSource(5, 3), jobs, config)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading event 3")
	assert.Equal(t, []int{0, 1, 2}, drain(jobs))
}

func TestRunSummary_Err(t *testing.T) {
	assert.NoError(t, RunSummary{Events: 4, WithBox: 2}.Err())

	err := RunSummary{Events: 4, Discarded: 1}.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 events discarded")

	readErr := errors.New("corrupted chunk")
	err = RunSummary{ReadErr: readErr, WriteErr: 2}.Err()
	assert.ErrorIs(t, err, readErr)
	assert.Contains(t, err.Error(), "2 events could not be written")
}

func TestProcessWorkerResults_CountsDiscarded(t *testing.T) {
	results := make(chan WorkerResult, 2)
	results <- WorkerResult{Event: bbox.EventType{ID: bbox.EventID{Event: 1}}, Error: true}
	results <- WorkerResult{Event: bbox.EventType{ID: bbox.EventID{Event: 2}}, Error: true}
	close(results)

	summary := processWorkerResults(results, nil)

	assert.Equal(t, 2, summary.Events)
	assert.Equal(t, 2, summary.Discarded)
	assert.Error(t, summary.Err())
}
