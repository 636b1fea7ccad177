package ports

import "github.com/bft-labs/img2mp4/internal/domain"

// FrameComposer converts one source image into one frame of exactly the
// requested size. Implementations must be safe to call from the render worker
// goroutine and must not retain the returned frame.
type FrameComposer interface {
	// Compose decodes the image at path and letterboxes it into a frame.
	// Returns a *domain.DecodeError when the image cannot be decoded.
	Compose(path string, size domain.Size) (domain.Frame, error)
}
