package diagram

import (
	"errors"
	"fmt"

	perrors "github.com/matzehuels/patentfig/pkg/errors"
)

// Sentinel errors for diagram validation.
var (
	// ErrMalformedSpec is returned when a GraphSpec is not structurally valid.
	ErrMalformedSpec = errors.New("malformed spec")

	// ErrMalformedStep is returned when a flow step lacks a usable start or end.
	ErrMalformedStep = errors.New("malformed step")

	// ErrUnknownBlockReference is returned when a connection names an undeclared block.
	ErrUnknownBlockReference = errors.New("unknown block reference")

	// ErrSlotCount is returned when the number of block names does not fill the grid.
	ErrSlotCount = errors.New("wrong number of blocks")

	// ErrChainBreak is returned by strict flow validation when consecutive steps do not join.
	ErrChainBreak = errors.New("flow chain broken")
)

// MalformedSpecError reports a structural problem in a GraphSpec.
// Field is a JSON-pointer-like path to the offending value ("" for the root).
type MalformedSpecError struct {
	Field string
	Msg   string
	Err   error
}

func (e *MalformedSpecError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("malformed spec: %s", msg)
	}
	return fmt.Sprintf("malformed spec at %s: %s", e.Field, msg)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *MalformedSpecError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedSpec}
	}
	return []error{ErrMalformedSpec, e.Err}
}

// Code maps the error onto the shared error code scheme.
func (e *MalformedSpecError) Code() perrors.Code { return perrors.ErrCodeInvalidSpec }

// MalformedStepError reports a flow step with a missing or unusable field.
type MalformedStepError struct {
	Index int
	Field string
	Msg   string
}

func (e *MalformedStepError) Error() string {
	return fmt.Sprintf("malformed step %d: %q %s", e.Index, e.Field, e.Msg)
}

func (e *MalformedStepError) Unwrap() error { return ErrMalformedStep }

func (e *MalformedStepError) Code() perrors.Code { return perrors.ErrCodeInvalidStep }

// UnknownBlockReferenceError names a connection endpoint that is not a declared block.
// Source is true when the unknown name was used as a mapping key.
type UnknownBlockReferenceError struct {
	Name   string
	Source bool
}

func (e *UnknownBlockReferenceError) Error() string {
	role := "destination"
	if e.Source {
		role = "source"
	}
	return fmt.Sprintf("unknown block reference: %s %q is not one of the declared blocks", role, e.Name)
}

func (e *UnknownBlockReferenceError) Unwrap() error { return ErrUnknownBlockReference }

func (e *UnknownBlockReferenceError) Code() perrors.Code { return perrors.ErrCodeUnknownBlock }

// SlotCountError reports a block list that does not match the grid size.
type SlotCountError struct {
	Got  int
	Want int
}

func (e *SlotCountError) Error() string {
	return fmt.Sprintf("wrong number of blocks: got %d, want %d", e.Got, e.Want)
}

func (e *SlotCountError) Unwrap() error { return ErrSlotCount }

func (e *SlotCountError) Code() perrors.Code { return perrors.ErrCodeSlotCount }

// ChainBreakError reports that step Index ends somewhere other than where step Index+1 starts.
type ChainBreakError struct {
	Index int
	End   string
	Next  string
}

func (e *ChainBreakError) Error() string {
	return fmt.Sprintf("flow chain broken after step %d: %q does not lead to %q", e.Index, e.End, e.Next)
}

func (e *ChainBreakError) Unwrap() error { return ErrChainBreak }

func (e *ChainBreakError) Code() perrors.Code { return perrors.ErrCodeChainBreak }

// Field returns the offending field name carried by a diagram error, if any.
func Field(err error) string {
	var specErr *MalformedSpecError
	if errors.As(err, &specErr) {
		return specErr.Field
	}
	var stepErr *MalformedStepError
	if errors.As(err, &stepErr) {
		return fmt.Sprintf("[%d].%s", stepErr.Index, stepErr.Field)
	}
	var refErr *UnknownBlockReferenceError
	if errors.As(err, &refErr) {
		return refErr.Name
	}
	return ""
}
