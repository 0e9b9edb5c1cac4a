package reactive

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCell is raised when a handle refers to a cell that this
	// runtime never created (including the zero Signal).
	ErrUnknownCell = errors.New("unknown cell")

	// ErrUnknownEffect is raised when RunEffect is given an id that was
	// never registered.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrWrongType is raised when a cell is bound with a type other than the
	// type of the value it holds.
	ErrWrongType = errors.New("wrong cell type")

	// ErrNilEffect is raised when NewEffect is called without a body.
	ErrNilEffect = errors.New("nil effect body")

	// ErrWrongGoroutine is raised when the runtime is used from a goroutine
	// other than the one that created it.
	ErrWrongGoroutine = errors.New("runtime used from another goroutine")
)

// ProgrammingError is the value panicked by the runtime on misuse. It
// signals a caller bug, never a data condition, and is not meant to be
// recovered in normal operation.
type ProgrammingError struct {
	Op  string
	ID  uint64
	Err error
}

func (e *ProgrammingError) Error() string {
	return fmt.Sprintf("reactive: %s %d: %v", e.Op, e.ID, e.Err)
}

func (e *ProgrammingError) Unwrap() error {
	return e.Err
}

func fatal(op string, id uint64, err error) {
	panic(&ProgrammingError{Op: op, ID: id, Err: err})
}
