package domain

import (
	"fmt"
	"strings"
)

// Size is a target frame size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid returns true if both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// String formats the size as WxH, the form ffmpeg expects.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// RenderJob is the ordered list of source images to render together with the
// output geometry, timing and destination. It is created by the caller before
// rendering starts and must not change while a render is in progress.
type RenderJob struct {
	// ID identifies the job in logs, events and reports.
	ID string `json:"id"`

	// Sources are image paths in final frame order.
	Sources []string `json:"sources"`

	// Size is the output frame size.
	Size Size `json:"size"`

	// FrameDuration is how long each image is shown, in milliseconds.
	FrameDuration int `json:"frame_duration_ms"`

	// Destination is the output video path.
	Destination string `json:"destination"`
}

// Validate checks the job preconditions that must hold before any encoder
// resource is opened.
func (j RenderJob) Validate() error {
	if len(j.Sources) == 0 {
		return ErrNoInput
	}
	if strings.TrimSpace(j.Destination) == "" {
		return ErrNoDestination
	}
	if !j.Size.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSize, j.Size)
	}
	return nil
}

// Snapshot returns a copy of the job whose source list is not shared with the caller.
func (j RenderJob) Snapshot() RenderJob {
	cp := j
	cp.Sources = append([]string(nil), j.Sources...)
	return cp
}

// EffectiveDuration returns the frame duration clamped to at least one millisecond.
func (j RenderJob) EffectiveDuration() int {
	if j.FrameDuration < 1 {
		return 1
	}
	return j.FrameDuration
}

// FPS returns the output frame rate, 1000 / duration in milliseconds.
func (j RenderJob) FPS() float64 {
	return 1000.0 / float64(j.EffectiveDuration())
}

// FrameRate returns the frame rate as an exact rational string ("1000/40").
func (j RenderJob) FrameRate() string {
	return fmt.Sprintf("1000/%d", j.EffectiveDuration())
}
