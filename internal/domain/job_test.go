package domain

import (
	"errors"
	"testing"
)

func TestRenderJob_Validate(t *testing.T) {
	tests := []struct {
		name    string
		job     RenderJob
		wantErr error
	}{
		{
			name:    "empty sources",
			job:     RenderJob{Destination: "out.mp4", Size: Size{512, 512}},
			wantErr: ErrNoInput,
		},
		{
			name:    "missing destination",
			job:     RenderJob{Sources: []string{"a.png"}, Size: Size{512, 512}},
			wantErr: ErrNoDestination,
		},
		{
			name:    "blank destination",
			job:     RenderJob{Sources: []string{"a.png"}, Destination: "  ", Size: Size{512, 512}},
			wantErr: ErrNoDestination,
		},
		{
			name:    "zero width",
			job:     RenderJob{Sources: []string{"a.png"}, Destination: "out.mp4", Size: Size{0, 512}},
			wantErr: ErrInvalidSize,
		},
		{
			name:    "no input wins over no destination",
			job:     RenderJob{},
			wantErr: ErrNoInput,
		},
		{
			name: "valid",
			job:  RenderJob{Sources: []string{"a.png"}, Destination: "out.mp4", Size: Size{512, 512}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderJob_FrameRate(t *testing.T) {
	tests := []struct {
		duration int
		wantFPS  float64
		wantRate string
	}{
		{40, 25, "1000/40"},
		{1000, 1, "1000/1000"},
		{0, 1000, "1000/1"},
		{-5, 1000, "1000/1"},
	}

	for _, tt := range tests {
		j := RenderJob{FrameDuration: tt.duration}
		if got := j.FPS(); got != tt.wantFPS {
			t.Errorf("FPS() with %d ms = %v, want %v", tt.duration, got, tt.wantFPS)
		}
		if got := j.FrameRate(); got != tt.wantRate {
			t.Errorf("FrameRate() with %d ms = %q, want %q", tt.duration, got, tt.wantRate)
		}
	}
}

func TestRenderJob_Snapshot(t *testing.T) {
	sources := []string{"a.png", "b.png"}
	j := RenderJob{Sources: sources}

	snap := j.Snapshot()
	sources[0] = "changed.png"

	if snap.Sources[0] != "a.png" {
		t.Errorf("snapshot shares source slice with caller: got %q", snap.Sources[0])
	}
}

func TestDecodeError_Is(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewDecodeError("b.png", DecodeCorrupt, cause)

	if !errors.Is(err, ErrCorruptImage) {
		t.Error("DecodeError should match ErrCorruptImage")
	}
	if errors.Is(err, ErrSourceNotFound) {
		t.Error("corrupt DecodeError should not match ErrSourceNotFound")
	}
	if !errors.Is(err, cause) {
		t.Error("DecodeError should unwrap to its cause")
	}

	var de *DecodeError
	if !errors.As(error(err), &de) || de.Path != "b.png" {
		t.Errorf("errors.As failed or wrong path: %+v", de)
	}
}

func TestRenderResult_FailureKind(t *testing.T) {
	tests := []struct {
		result RenderResult
		want   string
	}{
		{RenderResult{Outcome: OutcomeCompleted}, FailureNone},
		{RenderResult{Outcome: OutcomeCancelled}, FailureNone},
		{RenderResult{Outcome: OutcomeFailed, Err: ErrNoInput}, FailureNoInput},
		{RenderResult{Outcome: OutcomeFailed, Err: ErrNoDestination}, FailureNoDestination},
		{RenderResult{Outcome: OutcomeFailed, Err: ErrInvalidSize}, FailureInvalidSize},
		{RenderResult{Outcome: OutcomeFailed, Err: errors.Join(ErrWriterOpenFailed, ErrUnsupportedContainer)}, FailureWriterOpenFailed},
		{RenderResult{Outcome: OutcomeFailed, Err: errors.New("disk full")}, FailureGeneric},
	}

	for _, tt := range tests {
		if got := tt.result.FailureKind(); got != tt.want {
			t.Errorf("FailureKind() for %v/%v = %q, want %q", tt.result.Outcome, tt.result.Err, got, tt.want)
		}
	}
}

func TestSkippedFrom(t *testing.T) {
	item := SkippedFrom(NewDecodeError("x.webp", DecodeUnsupportedFormat, nil))
	if item.Path != "x.webp" || item.KindName() != "unsupported-format" {
		t.Errorf("SkippedFrom() = %+v", item)
	}
	if item.Reason != ErrUnsupportedFormat.Error() {
		t.Errorf("Reason = %q, want %q", item.Reason, ErrUnsupportedFormat.Error())
	}
}
