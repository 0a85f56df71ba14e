package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind string

const (
	// KindInvalidImage marks a pixel buffer whose length does not match its
	// dimensions, or non-positive dimensions.
	KindInvalidImage Kind = "invalid_image"

	// KindUnsupportedFormat marks raw file bytes that could not be decoded.
	KindUnsupportedFormat Kind = "unsupported_format"

	// KindUnknownMethod marks a selector outside the enumerated edge or
	// contour method sets.
	KindUnknownMethod Kind = "unknown_method"

	// KindProcessingFailed marks an unexpected failure inside a stage.
	KindProcessingFailed Kind = "processing_failed"
)

// Error is a stage-tagged conversion error. Each pipeline stage fails fast
// with its own name attached; the orchestrator wraps lower-level causes as
// KindProcessingFailed without discarding them.
type Error struct {
	Stage string
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// stageError builds a tagged error for a stage.
func stageError(stage string, kind Kind, err error) *Error {
	return &Error{Stage: stage, Kind: kind, Err: err}
}

// KindOf extracts the Kind from an error chain, or empty when the chain
// carries no conversion error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
