package bbox

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error { return e.Err }

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error { return e.Err }

// ErrOpenBoxFile is returned when the bounding box CSV cannot be opened.
type ErrOpenBoxFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenBoxFile) Error() string {
	return fmt.Sprintf("cannot open CSV file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenBoxFile) Unwrap() error { return e.Err }

// ErrBoxFileFormat is returned when the bounding box CSV is empty or a data
// line cannot be parsed. Line is 1-based and Text holds the raw line.
type ErrBoxFileFormat struct {
	Filename string
	Line     int
	Text     string
	Err      error
}

func (e *ErrBoxFileFormat) Error() string {
	return fmt.Sprintf("error parsing CSV file %q line %d: %q: %v", e.Filename, e.Line, e.Text, e.Err)
}

func (e *ErrBoxFileFormat) Unwrap() error { return e.Err }
