package ports

import (
	"context"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// EncoderSpec describes the stream an encoder is opened for.
type EncoderSpec struct {
	// Destination is the output file path.
	Destination string

	// Size is the frame size every written frame must have.
	Size domain.Size

	// FrameRate is the exact rational frame rate ("1000/40").
	FrameRate string

	// FPS is FrameRate as a float, for logging.
	FPS float64
}

// EncoderFactory opens video encoders.
type EncoderFactory interface {
	// Open creates the encoder/muxer for spec.
	// Returns an error wrapping domain.ErrWriterOpenFailed when the writer cannot be opened.
	Open(ctx context.Context, spec EncoderSpec) (FrameEncoder, error)
}

// FrameEncoder receives frames in presentation order and writes the container.
// It is exclusively owned by one render job.
type FrameEncoder interface {
	// WriteFrame appends a frame. Frames must match the opened size.
	WriteFrame(frame domain.Frame) error

	// Frames returns the number of frames written so far.
	Frames() int

	// Close flushes and finalizes the container and releases all resources.
	// It is safe to call more than once.
	Close() error
}
