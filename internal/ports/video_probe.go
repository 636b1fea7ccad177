package ports

import (
	"context"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// VideoProbe inspects a finished video file.
type VideoProbe interface {
	Probe(ctx context.Context, path string) (domain.VideoInfo, error)
}
