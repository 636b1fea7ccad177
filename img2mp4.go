// Package img2mp4 turns an ordered list of images into an MP4 video.
//
// Example usage:
//
//	job := img2mp4.NewJob([]string{"a.png", "b.jpg"}, "out.mp4")
//	result, err := img2mp4.Render(context.Background(), img2mp4.DefaultConfig(), job)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Outcome, result.Frames, len(result.Skipped))
//
// Use the render package directly for progress events, cancellation and
// background rendering.
package img2mp4

import (
	"context"

	"github.com/rs/zerolog"

	logAdapter "github.com/bft-labs/img2mp4/internal/adapters/log"
	"github.com/bft-labs/img2mp4/internal/cliconfig"
	"github.com/bft-labs/img2mp4/pkg/render"
)

// Config holds the renderer configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = render.Config

// Job is an ordered list of images with output size, frame duration and
// destination.
type Job = render.Job

// Result is the outcome of a rendered job.
type Result = render.Result

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return render.DefaultConfig()
}

// NewJob returns a job with a fresh ID, 512x512 frames and 40 ms per image.
func NewJob(sources []string, destination string) Job {
	return render.NewJob(sources, destination)
}

// Render renders job and blocks until it is over. Unless opts set a logger,
// the package logger is used. Cancelling ctx stops the job after the current
// image and finalizes the partial video.
func Render(ctx context.Context, cfg Config, job Job, opts ...render.Option) (Result, error) {
	opts = append([]render.Option{render.WithLogger(logAdapter.NewZerologAdapterWithLogger(Logger()))}, opts...)
	r, err := render.New(cfg, opts...)
	if err != nil {
		return Result{}, err
	}
	return r.Render(ctx, job)
}

// Logger returns the package-level zerolog logger: console output on stderr
// at info level.
func Logger() zerolog.Logger {
	return cliconfig.Logger("info")
}
