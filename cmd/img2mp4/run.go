package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/bft-labs/img2mp4/internal/adapters/ffmpeg"
	"github.com/bft-labs/img2mp4/internal/adapters/fs"
	logAdapter "github.com/bft-labs/img2mp4/internal/adapters/log"
	"github.com/bft-labs/img2mp4/internal/cliconfig"
	"github.com/bft-labs/img2mp4/internal/i18n"
	"github.com/bft-labs/img2mp4/internal/tui"
	"github.com/bft-labs/img2mp4/pkg/render"
	"github.com/bft-labs/img2mp4/plugins/inputwatcher"
)

// runner renders the configured job once, or on every input change in
// watch mode.
type runner struct {
	cfg         cliconfig.Config
	log         zerolog.Logger
	summarizer  *i18n.Summarizer
	out         io.Writer
	interactive bool
}

func newRunner(cfg cliconfig.Config, log zerolog.Logger) *runner {
	return &runner{
		cfg:         cfg,
		log:         log,
		summarizer:  i18n.New(i18n.Match(locale(cfg.Lang))),
		out:         os.Stdout,
		interactive: !cfg.Watch && isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}
}

func (r *runner) run(ctx context.Context) error {
	result, err := r.renderOnce(ctx)
	if err != nil {
		return err
	}
	if !r.cfg.Watch {
		return outcomeError(result)
	}

	w := inputwatcher.New(inputwatcher.DefaultConfig(), r.cfg.Inputs, func(ctx context.Context) {
		if _, err := r.renderOnce(ctx); err != nil {
			r.log.Error().Err(err).Msg("re-render")
		}
	}, logAdapter.NewZerologAdapterWithLogger(r.log))
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	r.log.Info().Strs("inputs", r.cfg.Inputs).Msg("watching for changes, press Ctrl+C to stop")

	<-ctx.Done()
	return w.Shutdown(context.Background())
}

// renderOnce expands the inputs and renders them. The error is reserved for
// setup problems; the job outcome is in the result.
func (r *runner) renderOnce(ctx context.Context) (render.Result, error) {
	sources, ignored, err := fs.ExpandInputs(r.cfg.Inputs)
	if err != nil {
		return render.Result{}, err
	}
	for _, p := range ignored {
		r.log.Warn().Str("path", p).Msg("ignoring unsupported input")
	}
	destination := fs.NormalizeDestination(r.cfg.Output, ffmpeg.ContainerExtensions())
	job := r.cfg.Job(sources, destination)

	opts := []render.Option{}
	if r.cfg.Report != "" {
		opts = append(opts, render.WithReportRepository(fs.NewReportFileRepository(r.cfg.Report)))
	}

	if r.interactive {
		return r.renderTUI(ctx, job, opts)
	}

	opts = append(opts,
		render.WithLogger(logAdapter.NewZerologAdapterWithLogger(r.log)),
		render.WithEventHandler(newProgressLogger(r.log)),
	)
	renderer, err := render.New(r.cfg.RenderConfig(), opts...)
	if err != nil {
		return render.Result{}, err
	}
	result, err := renderer.Render(ctx, job)
	if err != nil {
		return result, err
	}
	r.printSummary(result)
	return result, nil
}

// renderTUI runs the job behind the progress view. Ctrl+C inside the view
// cancels the job; the view exits once the result is in.
func (r *runner) renderTUI(ctx context.Context, job render.Job, opts []render.Option) (render.Result, error) {
	var renderer *render.Renderer
	model := tui.NewModel(job.Destination, len(job.Sources), func() { renderer.Cancel() }, r.summarizer)
	program := tea.NewProgram(model)

	opts = append(opts, render.WithEventHandler(tui.NewHandler(program)))
	renderer, err := render.New(r.cfg.RenderConfig(), opts...)
	if err != nil {
		return render.Result{}, err
	}
	if err := renderer.Start(ctx, job); err != nil {
		return render.Result{}, err
	}

	if _, err := program.Run(); err != nil {
		renderer.Cancel()
		result, _ := renderer.Wait()
		r.printSummary(result)
		return result, fmt.Errorf("progress view: %w", err)
	}
	return renderer.Wait()
}

func (r *runner) printSummary(result render.Result) {
	fmt.Fprintf(r.out, "%s: %s\n", r.summarizer.Title(result), r.summarizer.Summary(result))
}

// outcomeError maps a job outcome to the command's error.
func outcomeError(result render.Result) error {
	switch result.Outcome {
	case render.OutcomeCancelled:
		return errRenderCancelled
	case render.OutcomeFailed:
		return errRenderFailed
	}
	return nil
}

// locale picks the first configured locale: the explicit setting, then the
// usual POSIX variables.
func locale(explicit string) string {
	for _, v := range []string{explicit, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")} {
		if v != "" {
			return v
		}
	}
	return ""
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
