package render

import (
	"github.com/google/uuid"

	"github.com/bft-labs/img2mp4/internal/domain"
	"github.com/bft-labs/img2mp4/internal/ports"
)

// Job is an ordered list of images with output geometry, timing and destination.
type Job = domain.RenderJob

// NewJob returns a job with a fresh ID, the default size and the default
// frame duration.
func NewJob(sources []string, destination string) Job {
	return Job{
		ID:            uuid.NewString(),
		Sources:       append([]string(nil), sources...),
		Size:          Size{Width: DefaultWidth, Height: DefaultHeight},
		FrameDuration: DefaultFrameDuration,
		Destination:   destination,
	}
}

// Size is a frame size in pixels.
type Size = domain.Size

// Result is the terminal outcome of a job.
type Result = domain.RenderResult

// Outcome is the terminal kind of a job.
type Outcome = domain.Outcome

// SkippedItem is a source image that could not be decoded.
type SkippedItem = domain.SkippedItem

// VideoInfo describes a finished video as reported by the probe.
type VideoInfo = domain.VideoInfo

// DecodeError reports a source image that could not be decoded.
type DecodeError = domain.DecodeError

// Frame is a composed BGR frame.
type Frame = domain.Frame

// Outcomes.
const (
	OutcomeCompleted = domain.OutcomeCompleted
	OutcomeCancelled = domain.OutcomeCancelled
	OutcomeFailed    = domain.OutcomeFailed
)

// Errors that can be checked with errors.Is.
var (
	ErrNoInput          = domain.ErrNoInput
	ErrNoDestination    = domain.ErrNoDestination
	ErrInvalidSize      = domain.ErrInvalidSize
	ErrWriterOpenFailed = domain.ErrWriterOpenFailed
	ErrAlreadyRunning   = domain.ErrAlreadyRunning
	ErrNotStarted       = domain.ErrNotStarted
	ErrInvalidConfig    = domain.ErrInvalidConfig
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// EncoderFactory opens video encoders.
type EncoderFactory = ports.EncoderFactory

// EncoderSpec describes the stream an encoder is opened for.
type EncoderSpec = ports.EncoderSpec

// FrameEncoder receives composed frames in order.
type FrameEncoder = ports.FrameEncoder

// FrameComposer turns an image file into a frame.
type FrameComposer = ports.FrameComposer

// VideoProbe inspects a finished video.
type VideoProbe = ports.VideoProbe

// ReportRepository persists the result of each job.
type ReportRepository = ports.ReportRepository
