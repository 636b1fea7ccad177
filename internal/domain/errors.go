package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the img2mp4 domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrNoInput is returned when a job has no source images.
	ErrNoInput = errors.New("img2mp4: no input images")

	// ErrNoDestination is returned when a job has no destination path.
	ErrNoDestination = errors.New("img2mp4: no destination path")

	// ErrInvalidSize is returned when the target width or height is not positive.
	ErrInvalidSize = errors.New("img2mp4: invalid target size")

	// ErrWriterOpenFailed is returned when the encoder for the destination cannot be opened.
	ErrWriterOpenFailed = errors.New("img2mp4: video writer could not be opened")

	// ErrUnsupportedContainer is returned when the destination extension or codec is not supported.
	// It is always wrapped in ErrWriterOpenFailed.
	ErrUnsupportedContainer = errors.New("img2mp4: unsupported container/codec combination")

	// ErrAlreadyRunning is returned when a render is started while a job is active.
	ErrAlreadyRunning = errors.New("img2mp4: render already running")

	// ErrNotStarted is returned by Wait() when no job has been started.
	ErrNotStarted = errors.New("img2mp4: no render started")

	// ErrInvalidTransition is returned when the job state machine rejects a transition.
	ErrInvalidTransition = errors.New("img2mp4: invalid state transition")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("img2mp4: invalid configuration")
)

// Decode error kinds. A DecodeError matches the sentinel of its kind with errors.Is.
var (
	ErrSourceNotFound    = errors.New("source image not found")
	ErrSourceUnreadable  = errors.New("source image unreadable")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCorruptImage      = errors.New("corrupt image data")
)

// DecodeKind classifies why a source image could not be turned into a frame.
type DecodeKind int

const (
	DecodeCorrupt DecodeKind = iota
	DecodeNotFound
	DecodeUnreadable
	DecodeUnsupportedFormat
)

// String returns a stable identifier for the kind.
func (k DecodeKind) String() string {
	switch k {
	case DecodeNotFound:
		return "not-found"
	case DecodeUnreadable:
		return "unreadable"
	case DecodeUnsupportedFormat:
		return "unsupported-format"
	default:
		return "corrupt"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k DecodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DecodeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not-found":
		*k = DecodeNotFound
	case "unreadable":
		*k = DecodeUnreadable
	case "unsupported-format":
		*k = DecodeUnsupportedFormat
	default:
		*k = DecodeCorrupt
	}
	return nil
}

func (k DecodeKind) sentinel() error {
	switch k {
	case DecodeNotFound:
		return ErrSourceNotFound
	case DecodeUnreadable:
		return ErrSourceUnreadable
	case DecodeUnsupportedFormat:
		return ErrUnsupportedFormat
	default:
		return ErrCorruptImage
	}
}

// DecodeError reports a source image that could not be decoded.
// It is recovered per item by the sequencer and never fails a job on its own.
type DecodeError struct {
	Path string
	Kind DecodeKind
	Err  error
}

// NewDecodeError creates a DecodeError for path.
func NewDecodeError(path string, kind DecodeKind, err error) *DecodeError {
	return &DecodeError{Path: path, Kind: kind, Err: err}
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s: %s", e.Path, e.Kind.sentinel())
	}
	return fmt.Sprintf("decode %s: %s: %v", e.Path, e.Kind.sentinel(), e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
