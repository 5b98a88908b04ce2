package categorytree

import (
	"errors"
	"fmt"
)

// ErrIntegrity matches every *IntegrityError via errors.Is.
var ErrIntegrity = errors.New("forest integrity violation")

// IntegrityKind classifies a structural defect in a forest.
type IntegrityKind string

const (
	KindDuplicateID IntegrityKind = "duplicate_id"
	KindCycle       IntegrityKind = "cycle"
	KindNilNode     IntegrityKind = "nil_node"
	KindEmptyID     IntegrityKind = "empty_id"
)

// IntegrityError reports a forest that cannot be indexed. It is fatal to
// that forest: the caller must re-fetch or reject it.
type IntegrityError struct {
	Kind IntegrityKind
	ID   string // Offending id, or the parent id for nil/empty children.
}

func (e *IntegrityError) Error() string {
	switch e.Kind {
	case KindDuplicateID:
		return fmt.Sprintf("duplicate category id %q", e.ID)
	case KindCycle:
		return fmt.Sprintf("cycle detected at category %q", e.ID)
	case KindNilNode:
		if e.ID == "" {
			return "nil root category"
		}
		return fmt.Sprintf("nil child under category %q", e.ID)
	case KindEmptyID:
		if e.ID == "" {
			return "root category with empty id"
		}
		return fmt.Sprintf("child with empty id under category %q", e.ID)
	}
	return fmt.Sprintf("integrity violation %s at %q", e.Kind, e.ID)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}
