package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	envFFmpegPath  = "THUMBCUE_FFMPEG_PATH"
	envFFprobePath = "THUMBCUE_FFPROBE_PATH"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Locate resolves ffmpeg and ffprobe. Explicit paths win, then the
// THUMBCUE_FFMPEG_PATH / THUMBCUE_FFPROBE_PATH environment, then PATH.
func Locate(ffmpegPath, ffprobePath string) (BinaryPaths, error) {
	ffmpeg, err := locate("ffmpeg", ffmpegPath, envFFmpegPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobe, err := locate("ffprobe", ffprobePath, envFFprobePath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpeg, FFprobe: ffprobe}, nil
}

func locate(name, explicit, envVar string) (string, error) {
	for _, candidate := range []string{explicit, os.Getenv(envVar)} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if !fileExists(candidate) {
			return "", fmt.Errorf("%s: %w at %s", name, ErrNotFound, candidate)
		}
		return filepath.Clean(candidate), nil
	}

	found, err := exec.LookPath(name + executableSuffix())
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: install it or set %s",
			name,
			ErrNotFound,
			envVar,
		)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
