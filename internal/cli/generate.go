package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/thumbcue/internal/ffmpeg"
	"github.com/mgpai22/thumbcue/internal/media"
	"github.com/mgpai22/thumbcue/internal/thumbnail"
	"github.com/mgpai22/thumbcue/internal/webvtt"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [video_file]",
	Short: "Generate a thumbnail track for a video",
	Long: `Generate a WebVTT thumbnail track for the specified video file.

The video is split into fixed intervals (default 10 seconds). One frame is
grabbed from the middle of each interval with ffmpeg, scaled, and written
as a JPEG. The track references each image relative to its own location.

ffmpeg and ffprobe are taken from the config, THUMBCUE_FFMPEG_PATH /
THUMBCUE_FFPROBE_PATH, or PATH, in that order.

Examples:
  thumbcue generate movie.mp4
  thumbcue generate movie.mp4 --interval 5 --width 240 --height -1
  thumbcue generate movie.mkv --out-dir previews -o previews/movie.vtt --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		Float64P("interval", "i", 0, "Seconds covered by each thumbnail (default from config)")
	generateCmd.Flags().
		Int("width", 0, "Thumbnail width in pixels, -1 to keep aspect (default from config)")
	generateCmd.Flags().
		Int("height", 0, "Thumbnail height in pixels, -1 to keep aspect (default from config)")
	generateCmd.Flags().
		String("out-dir", "", "Directory for thumbnail images (default <video>_thumbs)")
	generateCmd.Flags().
		String("prefix", "", "Image file name prefix (default from config)")
	generateCmd.Flags().
		Int("concurrency", 0, "Number of parallel ffmpeg workers (default from config)")
}

// generateOptions are the resolved settings for one run.
type generateOptions struct {
	Interval    time.Duration
	Width       int
	Height      int
	Prefix      string
	OutDir      string
	TrackPath   string
	Concurrency int
}

func resolveGenerateOptions(cmd *cobra.Command, videoPath string) (generateOptions, error) {
	opts := generateOptions{
		Interval:    cfg.Interval(),
		Width:       cfg.Thumbnails.Width,
		Height:      cfg.Thumbnails.Height,
		Prefix:      cfg.Thumbnails.Prefix,
		Concurrency: cfg.FFmpeg.Concurrency,
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		secs, _ := flags.GetFloat64("interval")
		if secs <= 0 {
			return opts, fmt.Errorf("--interval must be positive, got %v", secs)
		}
		opts.Interval = time.Duration(secs * float64(time.Second))
	}
	if flags.Changed("width") {
		opts.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		opts.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("prefix") {
		opts.Prefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("concurrency") {
		opts.Concurrency, _ = flags.GetInt("concurrency")
		if opts.Concurrency < 1 {
			return opts, fmt.Errorf("--concurrency must be at least 1, got %d", opts.Concurrency)
		}
	}
	if (opts.Width <= 0 && opts.Width != -1) || (opts.Height <= 0 && opts.Height != -1) ||
		(opts.Width == -1 && opts.Height == -1) {
		return opts, fmt.Errorf("invalid thumbnail size %dx%d", opts.Width, opts.Height)
	}

	baseName := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	opts.OutDir, _ = flags.GetString("out-dir")
	if opts.OutDir == "" {
		opts.OutDir = baseName + "_thumbs"
	}
	opts.TrackPath, _ = flags.GetString("output")
	if opts.TrackPath == "" {
		opts.TrackPath = baseName + "_thumbs.vtt"
	}

	return opts, nil
}

// imageDir is the image directory as referenced from the track file.
func imageDir(trackPath, outDir string) string {
	trackDir, err := filepath.Abs(filepath.Dir(trackPath))
	if err != nil {
		return filepath.ToSlash(outDir)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return filepath.ToSlash(outDir)
	}
	rel, err := filepath.Rel(trackDir, absOut)
	if err != nil {
		return filepath.ToSlash(absOut)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected video file)", filepath.Ext(videoPath))
	}

	opts, err := resolveGenerateOptions(cmd, videoPath)
	if err != nil {
		return err
	}

	bins, err := ffmpeg.Locate(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath)
	if err != nil {
		return fmt.Errorf("failed to locate ffmpeg: %w", err)
	}

	logger.Infow("Starting thumbnail generation",
		"input", videoPath,
		"output", opts.TrackPath,
		"images", opts.OutDir,
		"interval", opts.Interval.String(),
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"concurrency", opts.Concurrency,
	)

	info, err := media.Probe(ctx, bins.FFprobe, videoPath)
	if err != nil {
		return fmt.Errorf("failed to probe video: %w", err)
	}

	logger.Infow("Video probed",
		"duration", info.Duration.String(),
		"codec", info.Codec,
		"resolution", fmt.Sprintf("%dx%d", info.Width, info.Height),
	)

	generator := thumbnail.NewGenerator()
	generator.Interval = opts.Interval
	generator.Prefix = opts.Prefix
	generator.ImageDir = imageDir(opts.TrackPath, opts.OutDir)

	frames, err := generator.Plan(info.Duration)
	if err != nil {
		return fmt.Errorf("failed to plan thumbnails: %w", err)
	}

	jobs := make([]media.FrameJob, len(frames))
	for i, f := range frames {
		jobs[i] = media.FrameJob{
			Index: f.Index,
			Seek:  f.SeekTime,
			Path:  filepath.Join(opts.OutDir, f.Name),
		}
	}

	logger.Infow("Extracting frames",
		"count", len(jobs),
	)

	frameOpts := media.DefaultFrameOptions()
	frameOpts.Width = opts.Width
	frameOpts.Height = opts.Height
	frameOpts.Concurrency = opts.Concurrency

	results, err := media.ExtractFrames(ctx, bins.FFmpeg, videoPath, jobs, frameOpts)
	if err != nil {
		return fmt.Errorf("failed to extract frames: %w", err)
	}

	writer := &webvtt.Writer{Identifiers: true}
	if err := writer.WriteFile(opts.TrackPath, thumbnail.Cues(frames)); err != nil {
		_ = media.Cleanup(results)
		return fmt.Errorf("failed to write track: %w", err)
	}

	absOutput, _ := filepath.Abs(opts.TrackPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Thumbnail track generated successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Thumbnails: %d\n", len(results))
	fmt.Fprintf(out, "  Duration: %s\n", info.Duration.String())

	return nil
}
