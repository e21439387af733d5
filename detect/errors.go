/*
DESCRIPTION
  errors.go provides the error taxonomy of the detection session.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package detect

import (
	"errors"
	"fmt"

	"github.com/ausocean/edgemotion/frame"
	"github.com/ausocean/edgemotion/lane"
)

// Kind classifies session errors.
type Kind int

const (
	// KindInitialization errors occur while constructing a session; the
	// session cannot be used.
	KindInitialization Kind = iota + 1

	// KindDimensionMismatch errors occur when a frame, or a plane derived
	// from it, does not have the session's dimensions. The background model
	// is left unchanged.
	KindDimensionMismatch

	// KindProcessing errors occur when a stage cannot produce a valid
	// result. The frame's work is abandoned.
	KindProcessing
)

func (k Kind) String() string {
	switch k {
	case KindInitialization:
		return "initialization"
	case KindDimensionMismatch:
		return "dimension mismatch"
	case KindProcessing:
		return "processing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the error type returned by Session methods. It records the kind
// of failure and the stage it occurred in.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

// Sentinel errors for use with errors.Is; each matches any Error of its kind.
var (
	ErrInitialization    = &Error{Kind: KindInitialization}
	ErrDimensionMismatch = &Error{Kind: KindDimensionMismatch}
	ErrProcessing        = &Error{Kind: KindProcessing}
)

// ErrShutdown is returned when a session is used after Shutdown.
var ErrShutdown = errors.New("session has been shut down")

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v error", e.Kind)
	}
	return fmt.Sprintf("%v error in %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Stage == "" && t.Kind == e.Kind
}

func initError(stage string, err error) error {
	return &Error{Kind: KindInitialization, Stage: stage, Err: err}
}

// classify wraps err from the given stage in an Error of the appropriate
// kind. Failures reported by a lane name their own stage.
func classify(stage string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	var oe *lane.OpError
	if errors.As(err, &oe) {
		stage = oe.Op
	}
	kind := KindProcessing
	if errors.Is(err, frame.ErrDimensionMismatch) {
		kind = KindDimensionMismatch
	}
	return &Error{Kind: kind, Stage: stage, Err: err}
}
