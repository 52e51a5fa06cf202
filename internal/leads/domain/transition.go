// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"fmt"

	"leadcrm_backend/internal/taxonomy"
)

// Reason is a machine-readable rejection code carried by TransitionError so
// callers can explain a rejection without re-deriving it.
type Reason string

const (
	ReasonDimensionUnknown  Reason = "DIMENSION_UNKNOWN"
	ReasonNodeNotFound      Reason = "NODE_NOT_FOUND"
	ReasonNodeInactive      Reason = "NODE_INACTIVE"
	ReasonSubParentMismatch Reason = "SUB_PARENT_MISMATCH"
)

// TransitionError describes why a requested status change was rejected.
type TransitionError struct {
	Reason    Reason
	Dimension taxonomy.Dimension
	Field     string
	Value     interface{}
	Message   string
}

func (e *TransitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s=%v: %s", e.Reason, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// StatusPair is one dimension's (main, sub) state on a lead. A nil MainID
// means the dimension is unset.
type StatusPair struct {
	MainID *int16
	SubID  *int16
}

// Equal reports whether both pairs hold the same values.
func (p StatusPair) Equal(other StatusPair) bool {
	return eqPtr(p.MainID, other.MainID) && eqPtr(p.SubID, other.SubID)
}

func eqPtr(a, b *int16) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CheckTransition decides structural admissibility of moving a dimension to
// (newMain, newSub). There is deliberately no ordering constraint between the
// old and new state: the pipelines are classification states, not monotonic
// workflows, so any reachable pair may be assigned at any time.
func CheckTransition(snap *taxonomy.Snapshot, dimension taxonomy.Dimension, newMain int16, newSub *int16) error {
	if !dimension.IsMutable() {
		return &TransitionError{
			Reason:    ReasonDimensionUnknown,
			Dimension: dimension,
			Message:   fmt.Sprintf("%q is not a status dimension", dimension),
		}
	}
	if !snap.HasDimension(dimension) {
		return &TransitionError{
			Reason:    ReasonDimensionUnknown,
			Dimension: dimension,
			Message:   fmt.Sprintf("dimension %q has no configured statuses", dimension),
		}
	}

	main, ok := snap.Node(dimension, newMain)
	if !ok || !main.IsRoot() {
		return &TransitionError{
			Reason:    ReasonNodeNotFound,
			Dimension: dimension,
			Field:     dimension.StatusField(),
			Value:     newMain,
			Message:   "no such main status in this dimension",
		}
	}
	if !main.IsActive {
		return &TransitionError{
			Reason:    ReasonNodeInactive,
			Dimension: dimension,
			Field:     dimension.StatusField(),
			Value:     newMain,
			Message:   fmt.Sprintf("status %s is disabled", main.Code),
		}
	}

	if newSub == nil {
		return nil
	}

	sub, ok := snap.Node(dimension, *newSub)
	if !ok {
		return &TransitionError{
			Reason:    ReasonNodeNotFound,
			Dimension: dimension,
			Field:     dimension.SubStatusField(),
			Value:     *newSub,
			Message:   "no such sub-status in this dimension",
		}
	}
	if sub.ParentID == nil || *sub.ParentID != main.ID {
		return &TransitionError{
			Reason:    ReasonSubParentMismatch,
			Dimension: dimension,
			Field:     dimension.SubStatusField(),
			Value:     *newSub,
			Message:   fmt.Sprintf("sub-status %s does not belong to main status %s", sub.Code, main.Code),
		}
	}
	if !sub.IsActive {
		return &TransitionError{
			Reason:    ReasonNodeInactive,
			Dimension: dimension,
			Field:     dimension.SubStatusField(),
			Value:     *newSub,
			Message:   fmt.Sprintf("sub-status %s is disabled", sub.Code),
		}
	}

	return nil
}

// ResolveTarget applies the sub-status carry rules to a requested change:
// an explicitly supplied sub wins; otherwise the old sub is kept only while
// the main status stays the same. A main-status move without an explicit sub
// always clears the sub so it can never be left orphaned under a different
// main status.
func ResolveTarget(old StatusPair, newMain int16, newSub *int16, subSupplied bool) StatusPair {
	target := StatusPair{MainID: &newMain}
	if subSupplied {
		target.SubID = newSub
		return target
	}
	if old.MainID != nil && *old.MainID == newMain {
		target.SubID = old.SubID
	}
	return target
}
