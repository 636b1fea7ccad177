package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/img2mp4/pkg/render"
)

// Accepted ranges for the per-job settings.
const (
	MinSize          = 1
	MaxSize          = 8192
	MinFrameDuration = 1
	MaxFrameDuration = 10000
)

// Config holds CLI configuration for img2mp4.
type Config struct {
	Inputs []string
	Output string

	Width      int
	Height     int
	DurationMS int

	Codec      string
	FFmpegPath string
	Preset     string
	CRF        int
	Verify     bool

	Report   string
	Watch    bool
	LogLevel string
	Lang     string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Width:      render.DefaultWidth,
		Height:     render.DefaultHeight,
		DurationMS: render.DefaultFrameDuration,
		Codec:      render.CodecH264,
		FFmpegPath: "ffmpeg",
		Preset:     render.DefaultPreset,
		CRF:        render.DefaultCRF,
		LogLevel:   "info",
	}
}

// Validate checks the configuration for errors.
// Missing inputs or output are not errors here; the renderer reports them
// as a failed job.
func (c *Config) Validate() error {
	if c.Width < MinSize || c.Width > MaxSize {
		return fmt.Errorf("width must be between %d and %d, got %d", MinSize, MaxSize, c.Width)
	}
	if c.Height < MinSize || c.Height > MaxSize {
		return fmt.Errorf("height must be between %d and %d, got %d", MinSize, MaxSize, c.Height)
	}
	if c.DurationMS < MinFrameDuration || c.DurationMS > MaxFrameDuration {
		return fmt.Errorf("duration must be between %d and %d ms, got %d", MinFrameDuration, MaxFrameDuration, c.DurationMS)
	}

	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	if c.Codec != render.CodecH264 && c.Codec != render.CodecMPEG4 {
		return fmt.Errorf("codec must be %s or %s, got %q", render.CodecH264, render.CodecMPEG4, c.Codec)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("crf must be between 0 and 51, got %d", c.CRF)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// RenderConfig converts the CLI settings into renderer settings.
func (c Config) RenderConfig() render.Config {
	cfg := render.DefaultConfig()
	cfg.FFmpegPath = c.FFmpegPath
	cfg.Codec = c.Codec
	cfg.Preset = c.Preset
	cfg.CRF = c.CRF
	cfg.Verify = c.Verify
	return cfg
}

// Job builds a render job from the expanded sources and normalized destination.
func (c Config) Job(sources []string, destination string) render.Job {
	job := render.NewJob(sources, destination)
	job.Size = render.Size{Width: c.Width, Height: c.Height}
	job.FrameDuration = c.DurationMS
	return job
}

// Logger returns a console logger on stderr at the given level.
// An unknown level falls back to info.
func Logger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer if not nil and flag not changed.
// Used where zero is a meaningful value.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Values below floor are ignored.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, floor int, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < floor {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
