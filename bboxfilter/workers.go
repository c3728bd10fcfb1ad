package main

import (
	"errors"
	"fmt"

	bbox "github.com/next-exp/bboxfilter_go/pkg"
)

type WorkerResult struct {
	Event bbox.EventType
	Stats bbox.FilterStats
	Error bool
}

// worker filters events until jobs is closed. Each worker owns its Filter;
// the box table and the geometry are shared read-only.
func worker(id int, filter *bbox.Filter, jobs <-chan bbox.EventType, results chan<- WorkerResult) {
	for event := range jobs {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Worker %d processing event %v", id, event.ID)
			logger.Info(message, "worker")
		}
		results <- filterEvent(id, filter, event)
	}
}

func filterEvent(id int, filter *bbox.Filter, event bbox.EventType) (result WorkerResult) {
	defer func() {
		if r := recover(); r != nil {
			errMessage := fmt.Errorf("worker %d recovered from panic on event %v: %v", id, event.ID, r)
			logger.Error(errMessage.Error())
			logger.Error(fmt.Sprintf("discarding event %v", event.ID))
			result = WorkerResult{Event: bbox.EventType{ID: event.ID}, Error: true}
		}
	}()

	filtered, stats := filter.FilterEvent(event)
	return WorkerResult{Event: filtered, Stats: stats}
}

type eventSource interface {
	NEvents() int
	ReadEvent(i int) (bbox.EventType, error)
}

// sendEventsToWorkers reads events from the single HDF5 reader, honouring
// skip and max_events, and closes jobs when done. It stops at the first
// event that cannot be read and returns that error.
func sendEventsToWorkers(reader eventSource, jobs chan<- bbox.EventType, config Configuration) error {
	defer close(jobs)
	for i := config.Skip; i < reader.NEvents(); i++ {
		if i-config.Skip >= config.MaxEvents {
			if VerbosityLevel > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return nil
		}
		event, err := reader.ReadEvent(i)
		if err != nil {
			readErr := fmt.Errorf("error reading event %d: %w", i, err)
			logger.Error(readErr.Error())
			return readErr
		}
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Reading event %d with ID %v", i, event.ID)
			logger.Info(message, "fileReader")
		}
		jobs <- event
	}
	return nil
}

type RunSummary struct {
	Events    int
	WithBox   int
	Discarded int
	WriteErr  int
	ReadErr   error
	Totals    bbox.FilterStats
}

// Err reports a run whose output is missing events.
func (s RunSummary) Err() error {
	var errs []error
	if s.ReadErr != nil {
		errs = append(errs, fmt.Errorf("input stopped early: %w", s.ReadErr))
	}
	if s.Discarded > 0 {
		errs = append(errs, fmt.Errorf("%d events discarded by workers", s.Discarded))
	}
	if s.WriteErr > 0 {
		errs = append(errs, fmt.Errorf("%d events could not be written", s.WriteErr))
	}
	return errors.Join(errs...)
}

func processWorkerResults(results <-chan WorkerResult, writer *bbox.Writer) RunSummary {
	var summary RunSummary
	for result := range results {
		summary.Events++
		if result.Error {
			summary.Discarded++
			continue
		}
		if result.Stats.HasBox {
			summary.WithBox++
		}
		summary.Totals.Filtered += result.Stats.Filtered
		summary.Totals.Zeroed += result.Stats.Zeroed
		summary.Totals.Kept += result.Stats.Kept
		summary.Totals.Unmapped += result.Stats.Unmapped

		if err := writer.WriteEvent(&result.Event); err != nil {
			message := fmt.Errorf("error writing event %v: %w", result.Event.ID, err)
			logger.Error(message.Error())
			summary.WriteErr++
		}
	}
	return summary
}
