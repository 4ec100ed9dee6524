package combo

import (
	"errors"
	"fmt"
)

// ErrLabelMismatch is returned by ParseKeyed when labels and results cannot
// be paired one to one.
var ErrLabelMismatch = errors.New("labels do not match results")

// ErrMediumMismatch is reported when a leaf parser is run against input of
// a different medium.
var ErrMediumMismatch = errors.New("input medium mismatch")

// ParseError is a grammar failure. Error returns Message verbatim so that
// messages keep their exact, documented format.
type ParseError struct {
	Message string
	// Fatal errors are never recovered from by Either, Choice, Option or
	// any repetition.
	Fatal bool
	Pos   Position
}

func (e *ParseError) Error() string {
	return e.Message
}

// FatalErrorf returns an error that, when returned from a TryMap transform
// or a BinaryOp, fails the parse fatally.
func FatalErrorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Fatal: true}
}

// ReadError reports that the input of ParseFile could not be obtained. It
// carries no position: the parser never ran.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
