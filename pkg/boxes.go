package bbox

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const boxFields = 11

var (
	errEmptyBoxFile = errors.New("empty CSV file")
	errNoBoxes      = errors.New("CSV file has a header but no bounding boxes")
)

// PlaneBox is the region of interest on one plane family: an inclusive wire
// range and an inclusive tick range. Values are kept as read, start may be
// larger than end.
type PlaneBox struct {
	WireStart int
	WireEnd   int
	TickStart int
	TickEnd   int
}

// EventBox holds the collection and induction boxes of one event.
type EventBox struct {
	ID         EventID
	Collection PlaneBox
	Induction  PlaneBox
}

// BoxTable maps events to their bounding boxes. It is never modified after
// LoadBoxTable returns, so lookups are safe from several goroutines.
type BoxTable struct {
	boxes map[EventID]EventBox
}

// LoadBoxTable reads a bounding box CSV. The first line is a header and is
// skipped, every other line must hold
//
//	run,subrun,event,c_w_i,c_w_f,c_t_i,c_t_f,i_w_i,i_w_f,i_t_i,i_t_f
//
// A later line for the same event replaces an earlier one.
func LoadBoxTable(filename string) (*BoxTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenBoxFile{Filename: filename, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, &ErrBoxFileFormat{Filename: filename, Line: 1, Err: err}
		}
		return nil, &ErrBoxFileFormat{Filename: filename, Line: 1, Err: errEmptyBoxFile}
	}
	header := scanner.Text()

	table := &BoxTable{boxes: make(map[EventID]EventBox)}
	lineNum := 1
	rows := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		box, err := parseBoxLine(line)
		if err != nil {
			return nil, &ErrBoxFileFormat{Filename: filename, Line: lineNum, Text: line, Err: err}
		}
		table.boxes[box.ID] = box
		rows++

		if verbosity < 2 {
			continue
		}
		message := fmt.Sprintf("Loaded box for event %v Collection: wires %d-%d, ticks %d-%d Induction: wires %d-%d, ticks %d-%d",
			box.ID, box.Collection.WireStart, box.Collection.WireEnd, box.Collection.TickStart, box.Collection.TickEnd,
			box.Induction.WireStart, box.Induction.WireEnd, box.Induction.TickStart, box.Induction.TickEnd)
		logger.Info(message, "boxes")
	}
	if err := scanner.Err(); err != nil {
		return nil, &ErrBoxFileFormat{Filename: filename, Line: lineNum + 1, Err: err}
	}
	if rows == 0 {
		return nil, &ErrBoxFileFormat{Filename: filename, Line: 1, Text: header, Err: errNoBoxes}
	}
	return table, nil
}

func parseBoxLine(line string) (EventBox, error) {
	fields := strings.Split(line, ",")
	if len(fields) != boxFields {
		return EventBox{}, fmt.Errorf("expected %d fields, found %d", boxFields, len(fields))
	}

	var values [boxFields]int
	for i, field := range fields {
		value, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return EventBox{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = value
	}

	return EventBox{
		ID: EventID{Run: values[0], Subrun: values[1], Event: values[2]},
		Collection: PlaneBox{
			WireStart: values[3],
			WireEnd:   values[4],
			TickStart: values[5],
			TickEnd:   values[6],
		},
		Induction: PlaneBox{
			WireStart: values[7],
			WireEnd:   values[8],
			TickStart: values[9],
			TickEnd:   values[10],
		},
	}, nil
}

// Lookup returns the box of an event. Only exact matches are returned.
func (t *BoxTable) Lookup(id EventID) (EventBox, bool) {
	box, ok := t.boxes[id]
	return box, ok
}

func (t *BoxTable) Len() int {
	return len(t.boxes)
}
