package inputwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"

	"github.com/bft-labs/img2mp4/internal/adapters/log"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestPlugin_TriggersOnImageChange(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	var calls atomic.Int32

	p := New(Config{DebounceDelay: 150 * time.Millisecond}, []string{dir}, func(ctx context.Context) {
		calls.Add(1)
	}, log.NewNoopLogger())

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	// A burst of writes settles into a single trigger.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "frame"+string(rune('a'+i))+".png")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if !waitFor(t, 3*time.Second, func() bool { return calls.Load() >= 1 }) {
		t.Fatal("trigger not called after image change")
	}
	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("trigger called %d times, want 1", got)
	}
}

func TestPlugin_IgnoresOtherFiles(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	var calls atomic.Int32

	p := New(Config{DebounceDelay: 20 * time.Millisecond}, []string{dir}, func(ctx context.Context) {
		calls.Add(1)
	}, log.NewNoopLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown(context.Background())

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("trigger called %d times for non-image changes", got)
	}
}

func TestPlugin_ExplicitFile(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	watched := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(watched, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32

	p := New(Config{DebounceDelay: 20 * time.Millisecond}, []string{watched}, func(ctx context.Context) {
		calls.Add(1)
	}, log.NewNoopLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown(context.Background())

	// Siblings of an explicit file are not inputs.
	if err := os.WriteFile(filepath.Join(dir, "other.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("trigger called %d times for an unrelated sibling", got)
	}

	if err := os.WriteFile(watched, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 3*time.Second, func() bool { return calls.Load() == 1 }) {
		t.Errorf("trigger called %d times, want 1", calls.Load())
	}
}

func TestPlugin_ShutdownWaitsForTrigger(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	started := make(chan struct{})
	var finished atomic.Bool

	p := New(Config{DebounceDelay: 10 * time.Millisecond}, []string{dir}, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished.Store(true)
	}, log.NewNoopLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("trigger not called")
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !finished.Load() {
		t.Error("Shutdown returned before the trigger finished")
	}
}

func TestPlugin_NothingToWatch(t *testing.T) {
	p := New(DefaultConfig(), nil, func(context.Context) {}, log.NewNoopLogger())
	if err := p.Start(context.Background()); err == nil {
		t.Error("Start() with no inputs should fail")
	}
	if p.Name() != "inputwatcher" {
		t.Errorf("Name() = %q", p.Name())
	}
}
