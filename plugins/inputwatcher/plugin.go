// Package inputwatcher re-renders a job when its input images change.
// It watches the input folders (and the folders holding explicitly listed
// files) and calls a trigger once the changes have settled.
package inputwatcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/img2mp4/internal/adapters/fs"
	"github.com/bft-labs/img2mp4/pkg/render"
)

// Trigger is called after a debounced batch of input changes.
// Calls never overlap.
type Trigger func(ctx context.Context)

// Plugin implements input watching.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	dirs     map[string]bool // watched directories, true when every image counts
	files    map[string]bool // explicitly listed files
	trigger  Trigger
	logger   render.Logger
	pending  chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the input watcher.
type Config struct {
	// DebounceDelay is the quiet period after the last change before the
	// trigger runs.
	// Default: 500 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 500 * time.Millisecond,
	}
}

// New creates a watcher for the given input arguments (files and folders,
// as passed on the command line).
func New(cfg Config, inputs []string, trigger Trigger, logger render.Logger) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultConfig().DebounceDelay
	}

	p := &Plugin{
		debounceDelay: cfg.DebounceDelay,
		dirs:          make(map[string]bool),
		files:         make(map[string]bool),
		trigger:       trigger,
		logger:        logger,
		pending:       make(chan struct{}, 1),
	}
	for _, in := range inputs {
		clean := filepath.Clean(in)
		if info, err := os.Stat(clean); err == nil && info.IsDir() {
			p.dirs[clean] = true
			continue
		}
		p.files[clean] = true
		dir := filepath.Dir(clean)
		if !p.dirs[dir] {
			p.dirs[dir] = false
		}
	}
	return p
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "inputwatcher"
}

// Start begins watching. It returns once the watches are in place.
func (p *Plugin) Start(ctx context.Context) error {
	if len(p.dirs) == 0 {
		return errors.New("inputwatcher: nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inputwatcher: create watcher: %w", err)
	}
	for dir := range p.dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("inputwatcher: watch %s: %w", dir, err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("input watcher started",
		render.LogField{Key: "dirs", Value: len(p.dirs)},
		render.LogField{Key: "debounce", Value: p.debounceDelay},
	)

	p.wg.Add(2)
	go p.watchLoop(watchCtx, watcher)
	go p.triggerLoop(watchCtx)

	return nil
}

// Shutdown stops the watcher and waits for a running trigger to return.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// watchLoop turns file system events into debounced triggers.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !p.relevant(event) {
				continue
			}
			p.logger.Debug("input changed",
				render.LogField{Key: "path", Value: event.Name},
				render.LogField{Key: "op", Value: event.Op.String()},
			)
			p.debounceSend(p.debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("input watcher error", render.LogField{Key: "error", Value: err})
		}
	}
}

// relevant reports whether event can change the rendered video.
func (p *Plugin) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if p.files[name] {
		return true
	}
	return p.dirs[filepath.Dir(name)] && fs.IsSupportedImage(name)
}

func (p *Plugin) debounceSend(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(delay, func() {
		select {
		case p.pending <- struct{}{}:
		default:
			// A trigger is already queued.
		}
	})
}

// triggerLoop runs the trigger for queued changes, one call at a time.
func (p *Plugin) triggerLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.pending:
			p.trigger(ctx)
		}
	}
}
