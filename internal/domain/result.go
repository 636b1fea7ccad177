package domain

import (
	"errors"
	"time"
)

// Outcome is the terminal kind of a render job.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Failure kinds reported by RenderResult.FailureKind.
const (
	FailureNone             = ""
	FailureNoInput          = "no-input"
	FailureNoDestination    = "no-destination"
	FailureInvalidSize      = "invalid-size"
	FailureWriterOpenFailed = "writer-open-failed"
	FailureGeneric          = "generic-error"
)

// SkippedItem is a source image that could not be decoded.
type SkippedItem struct {
	Path   string     `json:"path"`
	Kind   DecodeKind `json:"kind"`
	Reason string     `json:"reason"`
}

// KindName returns the stable name of the decode failure kind.
func (s SkippedItem) KindName() string {
	return s.Kind.String()
}

// SkippedFrom builds a SkippedItem from a decode error.
func SkippedFrom(err *DecodeError) SkippedItem {
	reason := err.Kind.sentinel().Error()
	if err.Err != nil {
		reason = err.Err.Error()
	}
	return SkippedItem{Path: err.Path, Kind: err.Kind, Reason: reason}
}

// VideoInfo describes a finished video as reported by the probe.
type VideoInfo struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Frames    int     `json:"frames"`
	FrameRate float64 `json:"frame_rate"`
	Codec     string  `json:"codec"`
}

// RenderResult is the terminal outcome of one RenderJob. Exactly one result
// is produced per job.
type RenderResult struct {
	JobID     string        `json:"job_id"`
	Outcome   Outcome       `json:"outcome"`
	Output    string        `json:"output,omitempty"`
	Skipped   []SkippedItem `json:"skipped"`
	Frames    int           `json:"frames"`
	Processed int           `json:"processed"`
	Total     int           `json:"total"`
	Err       error         `json:"-"`
	Video     *VideoInfo    `json:"video,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Completed returns true if the job finished normally.
func (r RenderResult) Completed() bool {
	return r.Outcome == OutcomeCompleted
}

// Cancelled returns true if the job stopped on a cancellation request.
func (r RenderResult) Cancelled() bool {
	return r.Outcome == OutcomeCancelled
}

// Failed returns true if the job terminated with an error.
func (r RenderResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// FailureKind classifies Err into one of the Failure* constants.
func (r RenderResult) FailureKind() string {
	if r.Outcome != OutcomeFailed {
		return FailureNone
	}
	switch {
	case errors.Is(r.Err, ErrNoInput):
		return FailureNoInput
	case errors.Is(r.Err, ErrNoDestination):
		return FailureNoDestination
	case errors.Is(r.Err, ErrInvalidSize):
		return FailureInvalidSize
	case errors.Is(r.Err, ErrWriterOpenFailed):
		return FailureWriterOpenFailed
	default:
		return FailureGeneric
	}
}

// ErrorMessage returns the failure message, or an empty string.
func (r RenderResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
