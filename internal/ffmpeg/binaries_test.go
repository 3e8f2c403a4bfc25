package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func fakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}
	return path
}

func TestLocateExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := fakeBinary(t, dir, "ffmpeg")
	ffprobePath := fakeBinary(t, dir, "ffprobe")

	paths, err := Locate(ffmpegPath, ffprobePath)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if paths.FFmpeg != ffmpegPath || paths.FFprobe != ffprobePath {
		t.Errorf("unexpected paths %+v", paths)
	}
}

func TestLocateFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envFFmpegPath, fakeBinary(t, dir, "my-ffmpeg"))
	t.Setenv(envFFprobePath, fakeBinary(t, dir, "my-ffprobe"))

	paths, err := Locate("", "")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if filepath.Base(paths.FFmpeg) != "my-ffmpeg" || filepath.Base(paths.FFprobe) != "my-ffprobe" {
		t.Errorf("unexpected paths %+v", paths)
	}
}

func TestLocateMissingExplicitPath(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "nope"), "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocateNothingOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv(envFFmpegPath, "")
	t.Setenv(envFFprobePath, "")

	_, err := Locate("", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
