package engine

import (
	"errors"
	"fmt"
)

// ErrSurfaceFailure marks any failure of the display surface; it is fatal to the run
var ErrSurfaceFailure = errors.New("display surface failure")

// Surface is the drawing capability the animator renders through.
// Units are pixels for windowed surfaces and cells for the terminal.
type Surface interface {
	// Bounds returns the drawable area
	Bounds() (width, height int)
	// Measure returns the extent of one rendered line
	Measure(line string) (width, height int, err error)
	// DrawText renders line with its top-left corner at (x, y); index is the line's position in the block
	DrawText(x, y int, line string, index int) error
	// ClearRegion erases a rectangle previously drawn into
	ClearRegion(x, y, width, height int) error
	// Flush makes pending drawing visible
	Flush() error
}

// SurfaceError records which surface operation failed
type SurfaceError struct {
	Op  string
	Err error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface %s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrSurfaceFailure and the underlying cause
func (e *SurfaceError) Unwrap() []error {
	return []error{ErrSurfaceFailure, e.Err}
}

func surfaceErr(op string, err error) error {
	return &SurfaceError{Op: op, Err: err}
}
