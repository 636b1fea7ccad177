// Package ffmpeg implements the video encoder and probe ports on top of the
// ffmpeg command line tools, driven through u2takey/ffmpeg-go.
//
// Frames are streamed to ffmpeg's stdin as raw bgr24 video at an exact
// rational frame rate, so the output holds one video frame per written frame.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/bft-labs/img2mp4/internal/domain"
	"github.com/bft-labs/img2mp4/internal/ports"
)

// Supported codecs.
const (
	CodecH264  = "libx264"
	CodecMPEG4 = "mpeg4"
)

// Config holds encoder settings.
type Config struct {
	// FFmpegPath is the ffmpeg binary, looked up in PATH when not absolute.
	FFmpegPath string

	// Codec is the video codec, CodecH264 or CodecMPEG4.
	Codec string

	// Preset is the x264 speed preset.
	Preset string

	// CRF is the x264 constant rate factor.
	CRF int
}

// DefaultConfig returns the broadly playable H.264 configuration.
func DefaultConfig() Config {
	return Config{
		FFmpegPath: "ffmpeg",
		Codec:      CodecH264,
		Preset:     "medium",
		CRF:        20,
	}
}

type container struct {
	format    string
	codecs    []string
	faststart bool
}

// containers maps destination extensions to muxers and the codecs they accept.
var containers = map[string]container{
	".mp4": {format: "mp4", codecs: []string{CodecH264, CodecMPEG4}, faststart: true},
	".m4v": {format: "mp4", codecs: []string{CodecH264, CodecMPEG4}, faststart: true},
	".mov": {format: "mov", codecs: []string{CodecH264, CodecMPEG4}, faststart: true},
	".mkv": {format: "matroska", codecs: []string{CodecH264, CodecMPEG4}},
	".avi": {format: "avi", codecs: []string{CodecMPEG4, CodecH264}},
}

// ContainerExtensions returns the destination extensions the encoder can write.
func ContainerExtensions() []string {
	return []string{".mp4", ".m4v", ".mov", ".mkv", ".avi"}
}

func lookupContainer(dest, codec string) (container, error) {
	ext := strings.ToLower(filepath.Ext(dest))
	c, ok := containers[ext]
	if !ok {
		return container{}, fmt.Errorf("%w: %w: extension %q", domain.ErrWriterOpenFailed, domain.ErrUnsupportedContainer, ext)
	}
	for _, cc := range c.codecs {
		if cc == codec {
			return c, nil
		}
	}
	return container{}, fmt.Errorf("%w: %w: codec %q in %s", domain.ErrWriterOpenFailed, domain.ErrUnsupportedContainer, codec, c.format)
}

// pixelFormat picks the output chroma layout. 4:2:0 needs even dimensions
// with x264, so odd sizes fall back to 4:4:4.
func pixelFormat(codec string, size domain.Size) string {
	if codec == CodecH264 && (size.Width%2 != 0 || size.Height%2 != 0) {
		return "yuv444p"
	}
	return "yuv420p"
}

// EncoderFactory implements ports.EncoderFactory by spawning ffmpeg.
type EncoderFactory struct {
	cfg    Config
	logger ports.Logger
}

// NewEncoderFactory creates a new ffmpeg encoder factory.
func NewEncoderFactory(cfg Config, logger ports.Logger) *EncoderFactory {
	def := DefaultConfig()
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = def.FFmpegPath
	}
	if cfg.Codec == "" {
		cfg.Codec = def.Codec
	}
	if cfg.Preset == "" {
		cfg.Preset = def.Preset
	}
	if cfg.CRF <= 0 {
		cfg.CRF = def.CRF
	}
	return &EncoderFactory{cfg: cfg, logger: logger}
}

// Args returns the ffmpeg command line for spec, without the binary.
func (f *EncoderFactory) Args(spec ports.EncoderSpec) ([]string, error) {
	stream, err := f.stream(spec)
	if err != nil {
		return nil, err
	}
	return stream.GetArgs(), nil
}

func (f *EncoderFactory) stream(spec ports.EncoderSpec) (*ffmpeg.Stream, error) {
	c, err := lookupContainer(spec.Destination, f.cfg.Codec)
	if err != nil {
		return nil, err
	}

	out := ffmpeg.KwArgs{
		"f":       c.format,
		"c:v":     f.cfg.Codec,
		"pix_fmt": pixelFormat(f.cfg.Codec, spec.Size),
		"r":       spec.FrameRate,
	}
	switch f.cfg.Codec {
	case CodecH264:
		out["preset"] = f.cfg.Preset
		out["crf"] = strconv.Itoa(f.cfg.CRF)
	case CodecMPEG4:
		out["q:v"] = "2"
	}
	if c.faststart {
		out["movflags"] = "+faststart"
	}

	return ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "bgr24",
		"s":         spec.Size.String(),
		"framerate": spec.FrameRate,
	}).
		Output(spec.Destination, out).
		GlobalArgs("-hide_banner", "-loglevel", "error", "-nostdin").
		OverWriteOutput(), nil
}

// Open starts ffmpeg writing to spec.Destination.
// Every failure before the process is running wraps domain.ErrWriterOpenFailed.
func (f *EncoderFactory) Open(ctx context.Context, spec ports.EncoderSpec) (ports.FrameEncoder, error) {
	if !spec.Size.Valid() {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrWriterOpenFailed, domain.ErrInvalidSize, spec.Size)
	}
	stream, err := f.stream(spec)
	if err != nil {
		return nil, err
	}
	if pix := pixelFormat(f.cfg.Codec, spec.Size); pix != "yuv420p" {
		f.logger.Warn("odd frame size encodes as "+pix+", which many players and browsers cannot decode; use even dimensions for broad playback",
			ports.String("destination", spec.Destination),
			ports.String("size", spec.Size.String()),
			ports.String("codec", f.cfg.Codec),
		)
	}

	bin, err := exec.LookPath(f.cfg.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWriterOpenFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkDestination(spec.Destination); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWriterOpenFailed, err)
	}

	// The process outlives Open, so it is not bound to ctx.
	cmd := exec.Command(bin, stream.GetArgs()...)
	stderr := &tailBuffer{limit: 4096}
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %w", domain.ErrWriterOpenFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start ffmpeg: %w", domain.ErrWriterOpenFailed, err)
	}

	f.logger.Debug("encoder started",
		ports.String("destination", spec.Destination),
		ports.String("size", spec.Size.String()),
		ports.String("frame_rate", spec.FrameRate),
		ports.String("codec", f.cfg.Codec),
		ports.Int("pid", cmd.Process.Pid),
	)

	return &Encoder{
		spec:   spec,
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		logger: f.logger,
	}, nil
}

// checkDestination verifies the output file can be created or truncated.
func checkDestination(dest string) error {
	dir := filepath.Dir(dest)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("destination folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination folder %s is not a directory", dir)
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return fmt.Errorf("destination %s is a directory", dest)
	}
	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return file.Close()
}

// Encoder implements ports.FrameEncoder for one running ffmpeg process.
type Encoder struct {
	spec   ports.EncoderSpec
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *tailBuffer
	logger ports.Logger

	frames   int
	closed   bool
	closeErr error
}

// WriteFrame pipes one raw frame to ffmpeg.
func (e *Encoder) WriteFrame(frame domain.Frame) error {
	if e.closed {
		return errors.New("encoder closed")
	}
	if frame.Size() != e.spec.Size {
		return fmt.Errorf("frame size %s does not match encoder size %s", frame.Size(), e.spec.Size)
	}
	if len(frame.Pix) != frame.Width*frame.Height*domain.BytesPerPixel {
		return fmt.Errorf("frame buffer has %d bytes, want %d", len(frame.Pix), frame.Width*frame.Height*domain.BytesPerPixel)
	}
	if _, err := e.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("write frame %d: %w%s", e.frames+1, err, e.stderr.suffix())
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (e *Encoder) Frames() int {
	return e.frames
}

// Close ends the input stream and waits for ffmpeg to finalize the container.
func (e *Encoder) Close() error {
	if e.closed {
		return e.closeErr
	}
	e.closed = true

	inErr := e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		e.closeErr = fmt.Errorf("ffmpeg: %w%s", err, e.stderr.suffix())
	} else if inErr != nil && !errors.Is(inErr, os.ErrClosed) {
		e.closeErr = fmt.Errorf("close ffmpeg input: %w", inErr)
	}

	e.logger.Debug("encoder closed",
		ports.String("destination", e.spec.Destination),
		ports.Int("frames", e.frames),
		ports.Bool("ok", e.closeErr == nil),
	)
	return e.closeErr
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(t.buf.String())
}

// suffix formats the captured stderr for appending to an error message.
func (t *tailBuffer) suffix() string {
	if s := t.String(); s != "" {
		return ": " + s
	}
	return ""
}
