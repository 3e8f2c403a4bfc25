package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// video file information
type Info struct {
	Path     string
	Duration time.Duration
	Width    int
	Height   int
	Codec    string
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads duration and first video stream geometry with ffprobe.
func Probe(ctx context.Context, ffprobePath, videoPath string) (*Info, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"--", videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(videoPath, out.Bytes())
}

func parseProbe(videoPath string, data []byte) (*Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil || seconds <= 0 {
		return nil, fmt.Errorf("failed to parse duration %q", probe.Format.Duration)
	}

	info := &Info{
		Path:     videoPath,
		Duration: time.Duration(seconds * float64(time.Second)),
	}
	for _, s := range probe.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			info.Codec = s.CodecName
			break
		}
	}
	if info.Codec == "" {
		return nil, fmt.Errorf("no video stream in %s", videoPath)
	}

	return info, nil
}

// settings for thumbnail extraction
type FrameOptions struct {
	Width       int // Output width in pixels; -1 keeps aspect from Height
	Height      int // Output height in pixels; -1 keeps aspect from Width
	Quality     int // JPEG qscale, 2 (best) to 31
	Concurrency int // Parallel ffmpeg processes; 0 means 4
}

func DefaultFrameOptions() FrameOptions {
	return FrameOptions{
		Width:       160,
		Height:      90,
		Quality:     4,
		Concurrency: 4,
	}
}

// FrameJob is a single frame to grab.
type FrameJob struct {
	Index int
	Seek  time.Duration
	Path  string
}

// extracted frame on disk
type FrameResult struct {
	Index int
	Seek  time.Duration
	Path  string
}

// runFrame executes one extraction; swapped in tests.
var runFrame = func(ffmpegPath, videoPath string, job FrameJob, opts FrameOptions) error {
	return ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": job.Seek.Seconds()}).
		Output(job.Path, frameArgs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
}

func frameArgs(opts FrameOptions) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"frames:v": 1,
		"vf":       fmt.Sprintf("scale=%d:%d", opts.Width, opts.Height),
		"q:v":      opts.Quality,
		"an":       "", // No audio
	}
}

// ExtractFrames grabs one scaled frame per job, running up to
// opts.Concurrency ffmpeg processes. Results are ordered by Index; the
// first failure cancels the remaining jobs.
func ExtractFrames(
	ctx context.Context,
	ffmpegPath, videoPath string,
	jobs []FrameJob,
	opts FrameOptions,
) ([]FrameResult, error) {
	if opts.Width == 0 || opts.Height == 0 {
		return nil, fmt.Errorf("frame size must be set, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultFrameOptions().Quality
	}

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	for _, job := range jobs {
		if err := os.MkdirAll(filepath.Dir(job.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var (
		mu       sync.Mutex
		results  []FrameResult
		firstErr error
		wg       sync.WaitGroup
	)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	sem := make(chan struct{}, opts.Concurrency)

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		if failed() {
			break
		}

		wg.Add(1)
		go func(j FrameJob) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil || failed() {
				return
			}

			err := runFrame(ffmpegPath, videoPath, j, opts)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to extract frame %d: %w", j.Index, err)
				}
				return
			}

			results = append(results, FrameResult(j))
		}(job)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	return results, nil
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// removes extracted frames
func Cleanup(results []FrameResult) error {
	var lastErr error
	for _, r := range results {
		if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}
