package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionHazard is returned when flow would divide by zero: a
	// horizontal node whose children weigh nothing, or text in a node
	// without content width.
	ErrDivisionHazard = errors.New("division hazard")
	// ErrFlowOrder is returned when a value is read before flow produced it
	ErrFlowOrder = errors.New("flow order violation")
	// ErrInvalidAttribute is returned for interpreted attributes of the wrong type
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// ErrorKind classifies layout failures
type ErrorKind int

const (
	KindDivisionHazard ErrorKind = iota + 1
	KindFlowOrder
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindDivisionHazard:
		return "DivisionHazard"
	case KindFlowOrder:
		return "FlowOrder"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// LayoutError reports a failure to lay out the node with Tag
type LayoutError struct {
	Kind   ErrorKind
	Tag    string
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s in %s: %s", e.Kind, e.Tag, e.Reason)
}

// Unwrap returns the sentinel matching Kind
func (e *LayoutError) Unwrap() error {
	switch e.Kind {
	case KindDivisionHazard:
		return ErrDivisionHazard
	case KindFlowOrder:
		return ErrFlowOrder
	}
	return nil
}

func divisionHazard(tag, format string, args ...any) error {
	return &LayoutError{Kind: KindDivisionHazard, Tag: tag, Reason: fmt.Sprintf(format, args...)}
}

func flowOrder(tag, format string, args ...any) error {
	return &LayoutError{Kind: KindFlowOrder, Tag: tag, Reason: fmt.Sprintf(format, args...)}
}

func invalidAttribute(tag, key string, v any) error {
	return fmt.Errorf("%s: %w %q: unexpected %T", tag, ErrInvalidAttribute, key, v)
}
