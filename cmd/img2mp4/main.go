package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/img2mp4/internal/cliconfig"
)

const helpDescription = `
Turn an ordered list of images into an MP4 slideshow.

Each image becomes one frame shown for a fixed duration. Images are scaled
to fit the output size without distortion and centered on a black canvas.
Images that cannot be decoded are skipped and listed at the end.

Inputs are image files or folders. A folder contributes the images directly
inside it, sorted by file name. Supported formats: PNG, JPEG, BMP, GIF,
TIFF, WEBP.

Settings are read from the config file, then .env and IMG2MP4_* environment
variables, then flags; later sources win.`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  img2mp4 -o holiday.mp4 ~/Pictures/holiday
  img2mp4 -o intro.mkv --width 1280 --height 720 --duration 2000 title.png a.jpg b.jpg
  img2mp4 --config $HOME/.img2mp4/config.toml --watch
`)

// Exit codes.
const (
	exitFailed    = 1
	exitCancelled = 130
)

var (
	errRenderFailed    = errors.New("render failed")
	errRenderCancelled = errors.New("render cancelled")
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath, envPath string

	log := cliconfig.Logger(cfg.LogLevel)

	root := &cobra.Command{
		Use:           "img2mp4 [flags] <image|folder>...",
		Short:         "Turn an ordered list of images into an MP4 slideshow",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags; positional arguments count as the
			// inputs flag.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) > 0 {
				cfg.Inputs = args
				changed["inputs"] = true
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, filepath.Dir(cfgFile), changed)
			}

			// .env and IMG2MP4_* override the file but not explicit flags.
			if err := cliconfig.LoadDotEnv(envPath); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.Logger(cfg.LogLevel)
			log.Debug().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return newRunner(cfg, log).run(ctx)
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.img2mp4/config.toml)")
	root.Flags().StringVar(&envPath, "env-file", ".env", "path to a .env file with IMG2MP4_* variables")

	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "output video path (.mp4, .m4v, .mov, .mkv, .avi; .mp4 is appended otherwise)")
	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, fmt.Sprintf("frame width in pixels (%d-%d)", cliconfig.MinSize, cliconfig.MaxSize))
	root.Flags().IntVar(&cfg.Height, "height", cfg.Height, fmt.Sprintf("frame height in pixels (%d-%d)", cliconfig.MinSize, cliconfig.MaxSize))
	root.Flags().IntVarP(&cfg.DurationMS, "duration", "d", cfg.DurationMS, fmt.Sprintf("time each image is shown, in ms (%d-%d)", cliconfig.MinFrameDuration, cliconfig.MaxFrameDuration))

	root.Flags().StringVar(&cfg.Codec, "codec", cfg.Codec, "video codec (libx264 or mpeg4)")
	root.Flags().StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	root.Flags().StringVar(&cfg.Preset, "preset", cfg.Preset, "x264 preset")
	root.Flags().IntVar(&cfg.CRF, "crf", cfg.CRF, "x264 constant rate factor (0-51)")
	root.Flags().BoolVar(&cfg.Verify, "verify", cfg.Verify, "probe the finished video with ffprobe")

	root.Flags().StringVar(&cfg.Report, "report", cfg.Report, "write a JSON report of the job to this path")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-render whenever the input images change")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().StringVar(&cfg.Lang, "lang", cfg.Lang, "language of the summary (default: from LANG)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, errRenderCancelled) {
			os.Exit(exitCancelled)
		}
		if !errors.Is(err, errRenderFailed) {
			log.Error().Err(err).Msg("img2mp4")
		}
		os.Exit(exitFailed)
	}
}
