package tui

import "github.com/bft-labs/img2mp4/pkg/render"

// Messages for the tea program, one per renderer event.

// StateMsg is sent when the job state changes.
type StateMsg render.StateChangeEvent

// StepMsg is sent before an image is decoded.
type StepMsg render.StepEvent

// ProgressMsg is sent after an image has been processed.
type ProgressMsg render.ProgressEvent

// SkipMsg is sent when an image could not be decoded.
type SkipMsg render.SkipEvent

// FinishedMsg carries the terminal result.
type FinishedMsg render.FinishedEvent
