package render

import (
	"fmt"
	"time"

	"github.com/bft-labs/img2mp4/internal/adapters/ffmpeg"
	"github.com/bft-labs/img2mp4/internal/domain"
)

// Codecs accepted by Config.Codec.
const (
	CodecH264  = ffmpeg.CodecH264
	CodecMPEG4 = ffmpeg.CodecMPEG4
)

// Default values.
const (
	DefaultFrameDuration = 40
	DefaultWidth         = 512
	DefaultHeight        = 512
	DefaultEventBuffer   = 256
	DefaultPreset        = "medium"
	DefaultCRF           = 20
)

// Config holds the renderer configuration. Per-job settings live in Job.
type Config struct {
	// FFmpegPath is the ffmpeg binary. Default: "ffmpeg" from PATH.
	FFmpegPath string

	// Codec is the output video codec. Default: CodecH264.
	Codec string

	// Preset is the x264 speed preset. Default: "medium".
	Preset string

	// CRF is the x264 constant rate factor, 0..51. Default: 20.
	CRF int

	// Verify probes the finished video with ffprobe and attaches the
	// result to Result.Video.
	Verify bool

	// ProbeTimeout bounds the verification probe. Default: 30s.
	ProbeTimeout time.Duration

	// EventBuffer is the number of events buffered for the EventHandler.
	// Default: 256.
	EventBuffer int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.Codec == "" {
		c.Codec = CodecH264
	}
	if c.Preset == "" {
		c.Preset = DefaultPreset
	}
	if c.CRF == 0 {
		c.CRF = DefaultCRF
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = ffmpeg.DefaultProbeTimeout
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = DefaultEventBuffer
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Codec {
	case CodecH264, CodecMPEG4:
	default:
		return fmt.Errorf("%w: unknown codec %q", domain.ErrInvalidConfig, c.Codec)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("%w: crf %d out of range 0..51", domain.ErrInvalidConfig, c.CRF)
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("%w: negative probe timeout", domain.ErrInvalidConfig)
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("%w: event buffer must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

func (c Config) encoderConfig() ffmpeg.Config {
	return ffmpeg.Config{
		FFmpegPath: c.FFmpegPath,
		Codec:      c.Codec,
		Preset:     c.Preset,
		CRF:        c.CRF,
	}
}
