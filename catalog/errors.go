package catalog

import "fmt"

// NotFoundError indicates the catalog file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError indicates the catalog file is not valid PO format.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s: line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Reason)
}

// IOError indicates a write or backup failure during save. The in-memory
// catalog is unaffected; the caller may retry the save.
type IOError struct {
	Op   string // "backup" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
