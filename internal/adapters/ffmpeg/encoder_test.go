package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bft-labs/img2mp4/internal/adapters/log"
	"github.com/bft-labs/img2mp4/internal/domain"
	"github.com/bft-labs/img2mp4/internal/ports"
)

func testSpec(dest string, w, h int) ports.EncoderSpec {
	job := domain.RenderJob{FrameDuration: 40}
	return ports.EncoderSpec{
		Destination: dest,
		Size:        domain.Size{Width: w, Height: h},
		FrameRate:   job.FrameRate(),
		FPS:         job.FPS(),
	}
}

// argValue returns the value following flag, searching from the given index.
func argValue(args []string, from int, flag string) (string, bool) {
	for i := from; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func indexOf(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}

func TestEncoderFactory_Args(t *testing.T) {
	f := NewEncoderFactory(Config{}, log.NewNoopLogger())

	args, err := f.Args(testSpec("out.mp4", 512, 512))
	if err != nil {
		t.Fatalf("Args() error = %v", err)
	}

	in := indexOf(args, "pipe:")
	if in < 1 || args[in-1] != "-i" {
		t.Fatalf("missing stdin input in %v", args)
	}
	for flag, want := range map[string]string{
		"-f":         "rawvideo",
		"-pix_fmt":   "bgr24",
		"-s":         "512x512",
		"-framerate": "1000/40",
	} {
		if got, _ := argValue(args[:in], 0, flag); got != want {
			t.Errorf("input %s = %q, want %q", flag, got, want)
		}
	}
	for flag, want := range map[string]string{
		"-f":        "mp4",
		"-c:v":      "libx264",
		"-pix_fmt":  "yuv420p",
		"-r":        "1000/40",
		"-movflags": "+faststart",
		"-crf":      "20",
	} {
		if got, _ := argValue(args, in, flag); got != want {
			t.Errorf("output %s = %q, want %q", flag, got, want)
		}
	}
	if indexOf(args, "out.mp4") < in {
		t.Errorf("destination missing or before input: %v", args)
	}
	if indexOf(args, "-y") < 0 {
		t.Errorf("overwrite flag missing: %v", args)
	}
}

func TestEncoderFactory_ArgsPerContainer(t *testing.T) {
	tests := []struct {
		name      string
		dest      string
		codec     string
		w, h      int
		format    string
		pixFmt    string
		faststart bool
	}{
		{"odd size h264", "odd.mp4", CodecH264, 511, 300, "mp4", "yuv444p", true},
		{"mov", "clip.MOV", CodecH264, 640, 480, "mov", "yuv420p", true},
		{"matroska", "clip.mkv", CodecH264, 640, 480, "matroska", "yuv420p", false},
		{"avi mpeg4", "clip.avi", CodecMPEG4, 321, 241, "avi", "yuv420p", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewEncoderFactory(Config{Codec: tt.codec}, log.NewNoopLogger())
			args, err := f.Args(testSpec(tt.dest, tt.w, tt.h))
			if err != nil {
				t.Fatalf("Args() error = %v", err)
			}
			in := indexOf(args, "pipe:")
			if got, _ := argValue(args, in, "-f"); got != tt.format {
				t.Errorf("format = %q, want %q", got, tt.format)
			}
			if got, _ := argValue(args, in, "-pix_fmt"); got != tt.pixFmt {
				t.Errorf("pix_fmt = %q, want %q", got, tt.pixFmt)
			}
			if _, ok := argValue(args, in, "-movflags"); ok != tt.faststart {
				t.Errorf("movflags present = %v, want %v", ok, tt.faststart)
			}
		})
	}
}

func TestEncoderFactory_UnsupportedContainer(t *testing.T) {
	f := NewEncoderFactory(Config{}, log.NewNoopLogger())
	dest := filepath.Join(t.TempDir(), "out.gif")

	_, err := f.Open(context.Background(), testSpec(dest, 64, 64))
	if !errors.Is(err, domain.ErrWriterOpenFailed) {
		t.Fatalf("Open() error = %v, want ErrWriterOpenFailed", err)
	}
	if !errors.Is(err, domain.ErrUnsupportedContainer) {
		t.Errorf("Open() error = %v, want ErrUnsupportedContainer", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination should not be created")
	}
}

func TestEncoderFactory_UnsupportedCodec(t *testing.T) {
	f := NewEncoderFactory(Config{Codec: "vp9"}, log.NewNoopLogger())
	_, err := f.Args(testSpec("out.mp4", 64, 64))
	if !errors.Is(err, domain.ErrUnsupportedContainer) {
		t.Errorf("Args() error = %v, want ErrUnsupportedContainer", err)
	}
}

func TestEncoderFactory_MissingBinary(t *testing.T) {
	f := NewEncoderFactory(Config{FFmpegPath: "/nonexistent/ffmpeg-img2mp4"}, log.NewNoopLogger())
	dest := filepath.Join(t.TempDir(), "out.mp4")

	_, err := f.Open(context.Background(), testSpec(dest, 64, 64))
	if !errors.Is(err, domain.ErrWriterOpenFailed) {
		t.Fatalf("Open() error = %v, want ErrWriterOpenFailed", err)
	}
}

func TestEncoderFactory_OddSizeWarns(t *testing.T) {
	tests := []struct {
		name     string
		codec    string
		w, h     int
		wantWarn bool
	}{
		{"odd width x264", CodecH264, 511, 512, true},
		{"odd height x264", CodecH264, 512, 3, true},
		{"even x264", CodecH264, 512, 512, false},
		{"odd mpeg4", CodecMPEG4, 511, 511, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewZerologAdapterWithLogger(zerolog.New(&buf))
			f := NewEncoderFactory(Config{FFmpegPath: "/nonexistent/ffmpeg-img2mp4", Codec: tt.codec}, logger)

			_, err := f.Open(context.Background(), testSpec(filepath.Join(t.TempDir(), "out.mp4"), tt.w, tt.h))
			if !errors.Is(err, domain.ErrWriterOpenFailed) {
				t.Fatalf("Open() error = %v, want ErrWriterOpenFailed", err)
			}
			warned := strings.Contains(buf.String(), `"level":"warn"`) && strings.Contains(buf.String(), "yuv444p")
			if warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v; log: %s", warned, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestEncoderFactory_MissingFolder(t *testing.T) {
	requireFFmpeg(t)
	f := NewEncoderFactory(Config{}, log.NewNoopLogger())
	dest := filepath.Join(t.TempDir(), "missing", "out.mp4")

	_, err := f.Open(context.Background(), testSpec(dest, 64, 64))
	if !errors.Is(err, domain.ErrWriterOpenFailed) {
		t.Fatalf("Open() error = %v, want ErrWriterOpenFailed", err)
	}
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{limit: 8}
	tb.Write([]byte("hello "))
	tb.Write([]byte("world\n"))

	if got := tb.String(); got != "o world" {
		t.Errorf("String() = %q, want %q", got, "o world")
	}
	if got := tb.suffix(); !strings.HasPrefix(got, ": ") {
		t.Errorf("suffix() = %q", got)
	}
	if (&tailBuffer{limit: 8}).suffix() != "" {
		t.Error("empty buffer should have no suffix")
	}
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
}

func requireFFprobe(t *testing.T) {
	t.Helper()
	requireFFmpeg(t)
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestEncoder_RoundTrip(t *testing.T) {
	requireFFprobe(t)

	dest := filepath.Join(t.TempDir(), "out.mp4")
	spec := testSpec(dest, 64, 48)
	f := NewEncoderFactory(Config{Preset: "ultrafast"}, log.NewNoopLogger())

	enc, err := f.Open(context.Background(), spec)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		frame := domain.NewFrame(64, 48)
		for j := range frame.Pix {
			frame.Pix[j] = byte(i * 40)
		}
		if err := enc.WriteFrame(frame); err != nil {
			t.Fatalf("WriteFrame(%d) error = %v", i, err)
		}
	}
	if err := enc.WriteFrame(domain.NewFrame(32, 32)); err == nil {
		t.Error("WriteFrame() with wrong size should fail")
	}
	if enc.Frames() != 5 {
		t.Errorf("Frames() = %d, want 5", enc.Frames())
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	info, err := NewProber(0).Probe(context.Background(), dest)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("size = %dx%d, want 64x48", info.Width, info.Height)
	}
	if info.Frames != 5 {
		t.Errorf("frames = %d, want 5", info.Frames)
	}
	if info.FrameRate != 25 {
		t.Errorf("frame rate = %v, want 25", info.FrameRate)
	}
	if info.Codec != "h264" {
		t.Errorf("codec = %q, want h264", info.Codec)
	}
}
