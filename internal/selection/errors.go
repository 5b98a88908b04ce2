package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownID matches every *UnknownIDError.
	ErrUnknownID = errors.New("unknown category id")
	// ErrParentMismatch matches every *ParentMismatchError.
	ErrParentMismatch = errors.New("parent mismatch")
)

// UnknownIDError is returned when a toggle or coverage query names an id
// that is not in the index. Callers should treat the operation as a no-op.
type UnknownIDError struct {
	ID string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown category id %q", e.ID)
}

func (e *UnknownIDError) Is(target error) bool {
	return target == ErrUnknownID
}

// ParentMismatchError is returned when the caller-supplied parent of a
// toggle target is not its parent in the index.
type ParentMismatchError struct {
	ID     string
	Parent string // Supplied by the caller.
	Actual string // From the index; empty for roots.
}

func (e *ParentMismatchError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("category %q is a root, not a child of %q", e.ID, e.Parent)
	}
	return fmt.Sprintf("category %q has parent %q, not %q", e.ID, e.Actual, e.Parent)
}

func (e *ParentMismatchError) Is(target error) bool {
	return target == ErrParentMismatch
}
