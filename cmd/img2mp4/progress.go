package main

import (
	"github.com/rs/zerolog"

	"github.com/bft-labs/img2mp4/pkg/render"
)

// progressStep is the percentage between two progress log lines.
const progressStep = 10

// progressLogger reports renderer events as log lines when no terminal is
// attached. Events arrive on a single goroutine.
type progressLogger struct {
	render.BaseEventHandler
	log    zerolog.Logger
	jobID  string
	logged int
}

func newProgressLogger(log zerolog.Logger) *progressLogger {
	return &progressLogger{log: log}
}

func (p *progressLogger) OnStateChange(e render.StateChangeEvent) {
	p.log.Debug().
		Str("job", e.JobID).
		Stringer("from", e.Previous).
		Stringer("to", e.Current).
		Str("reason", e.Reason).
		Msg("state")
}

func (p *progressLogger) OnProgress(e render.ProgressEvent) {
	if e.JobID != p.jobID {
		p.jobID = e.JobID
		p.logged = -progressStep
	}
	if e.Percent < p.logged+progressStep && e.Percent != 100 {
		return
	}
	p.logged = e.Percent - e.Percent%progressStep
	p.log.Info().
		Int("percent", e.Percent).
		Int("processed", e.Processed).
		Int("total", e.Total).
		Msg("progress")
}

func (p *progressLogger) OnSkip(e render.SkipEvent) {
	p.log.Warn().
		Str("path", e.Item.Path).
		Stringer("kind", e.Item.Kind).
		Str("reason", e.Item.Reason).
		Msg("skipped image")
}

func (p *progressLogger) OnFinished(e render.FinishedEvent) {
	ev := p.log.Info()
	if e.Result.Outcome == render.OutcomeFailed {
		ev = p.log.Error().Err(e.Result.Err)
	}
	ev.Str("job", e.Result.JobID).
		Stringer("outcome", e.Result.Outcome).
		Int("frames", e.Result.Frames).
		Int("skipped", len(e.Result.Skipped)).
		Dur("elapsed", e.Result.Duration).
		Int64("dropped_events", e.Dropped).
		Msg("finished")
}
