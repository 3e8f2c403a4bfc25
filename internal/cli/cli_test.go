package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/thumbcue/internal/config"
	"github.com/mgpai22/thumbcue/internal/thumbnail"
	"github.com/mgpai22/thumbcue/internal/webvtt"
)

const sampleTrack = `WEBVTT

1
00:00.000 --> 00:10.000
sprites/sheet.jpg#xywh=0,0,160,90

2
00:10.000 --> 00:20.000
sprites/sheet.jpg#xywh=160,0,160,90

3
00:20.000 --> 00:25.500
https://cdn.example.com/last.jpg
`

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with an isolated home and no config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("THUMBCUE_CACHE_DIR", "")

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(home, "absent.toml")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func writeTrack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.vtt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write track: %v", err)
	}
	return path
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		want       string
		wantErr    bool
	}{
		{name: "flag wins", flag: "yaml", configured: "table", want: "yaml"},
		{name: "config used when flag empty", configured: "table", want: "table"},
		{name: "case insensitive", flag: " JSON ", want: "json"},
		{name: "auto off a terminal", flag: "auto", want: "json"},
		{name: "empty means auto", want: "json"},
		{name: "unknown", flag: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.flag, tt.configured, &bytes.Buffer{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.flag, tt.configured, got, tt.want)
			}
		})
	}
}

func TestParsePlaybackTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"83.5", 83.5},
		{"0", 0},
		{"01:23.500", 83.5},
		{"1:02:03.250", 3723.25},
		{" 10 ", 10},
	}
	for _, tt := range tests {
		got, err := parsePlaybackTime(tt.in)
		if err != nil {
			t.Errorf("parsePlaybackTime(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePlaybackTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "-1", "abc", "1:2:3:4", "inf"} {
		_, err := parsePlaybackTime(bad)
		if !errors.Is(err, webvtt.ErrInvalidTimestamp) {
			t.Errorf("parsePlaybackTime(%q) = %v, expected ErrInvalidTimestamp", bad, err)
		}
	}
}

func TestImageDir(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name   string
		track  string
		outDir string
		want   string
	}{
		{name: "sibling", track: filepath.Join(root, "movie.vtt"), outDir: filepath.Join(root, "movie_thumbs"), want: "movie_thumbs"},
		{name: "same dir", track: filepath.Join(root, "movie.vtt"), outDir: root, want: ""},
		{name: "nested", track: filepath.Join(root, "a", "movie.vtt"), outDir: filepath.Join(root, "b", "c"), want: "../b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := imageDir(tt.track, tt.outDir); got != tt.want {
				t.Errorf("imageDir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteThumbnailsTable(t *testing.T) {
	thumbs := thumbnail.ProjectAll(webvtt.Parse(sampleTrack), "")

	var buf bytes.Buffer
	if err := writeThumbnails(&buf, formatTable, thumbs); err != nil {
		t.Fatalf("writeThumbnails returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Start", "Image", "sprites/sheet.jpg", "160,0 160x90", "00:00:25.500"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "#xywh") {
		t.Errorf("sprite fragment should be split out of the image column:\n%s", out)
	}
}

func TestParseCommandJSON(t *testing.T) {
	path := writeTrack(t, sampleTrack)

	out, err := execute(t, "parse", path, "--format", "json", "--base-path", "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	var thumbs []thumbnail.Thumbnail
	if err := json.Unmarshal([]byte(out), &thumbs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(thumbs) != 3 {
		t.Fatalf("expected 3 thumbnails, got %d", len(thumbs))
	}
	if thumbs[0].ImageURL != "https://cdn.example.com/sprites/sheet.jpg" {
		t.Errorf("unexpected image url %q", thumbs[0].ImageURL)
	}
	if thumbs[1].Coordinates == nil || thumbs[1].Coordinates.X != 160 {
		t.Errorf("unexpected coordinates %+v", thumbs[1].Coordinates)
	}
	if thumbs[2].ImageURL != "https://cdn.example.com/last.jpg" {
		t.Errorf("absolute url should pass through, got %q", thumbs[2].ImageURL)
	}
	if thumbs[2].EndTime != 25.5 {
		t.Errorf("expected end 25.5, got %v", thumbs[2].EndTime)
	}
}

func TestParseCommandInvalidHeaderIsEmpty(t *testing.T) {
	path := writeTrack(t, "00:00.000 --> 00:10.000\na.jpg\n")

	out, err := execute(t, "parse", path, "-f", "json")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out)
	}
}

func TestParseCommandWritesOutputFile(t *testing.T) {
	path := writeTrack(t, sampleTrack)
	dest := filepath.Join(t.TempDir(), "nested", "thumbs.yaml")

	out, err := execute(t, "parse", path, "-f", "yaml", "-o", dest)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var thumbs []thumbnail.Thumbnail
	if err := yaml.Unmarshal(data, &thumbs); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(thumbs) != 3 || thumbs[0].Text != "sprites/sheet.jpg#xywh=0,0,160,90" {
		t.Errorf("unexpected YAML content: %+v", thumbs)
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	_, err := execute(t, "parse", filepath.Join(t.TempDir(), "missing.vtt"))
	if err == nil {
		t.Fatal("expected error for missing track")
	}
}

func TestLookupCommand(t *testing.T) {
	path := writeTrack(t, sampleTrack)

	out, err := execute(t, "lookup", path, "--at", "10", "--at", "00:25.5", "--at", "0:05", "-f", "json")
	if err != nil {
		t.Fatalf("lookup returned error: %v", err)
	}

	var results []lookupResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// 10 is the shared boundary: the later cue owns it
	if !results[0].Found || results[0].Thumbnail.StartTime != 10 {
		t.Errorf("expected second cue at 10s, got %+v", results[0])
	}
	// 25.5 is the exclusive end of the last cue
	if results[1].Found {
		t.Errorf("expected no thumbnail at the final end time, got %+v", results[1].Thumbnail)
	}
	if !results[2].Found || results[2].Label != "00:05" {
		t.Errorf("unexpected result for 5s: %+v", results[2])
	}
}

func TestLookupCommandRejectsBadTime(t *testing.T) {
	path := writeTrack(t, sampleTrack)

	if _, err := execute(t, "lookup", path, "--at", "soon"); err == nil {
		t.Fatal("expected error for unparseable --at")
	}
}

func TestConfigInit(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "thumbcue.toml")

	out, err := execute(t, "config", "init", "--path", dest)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, dest) {
		t.Errorf("expected output to mention %q, got %q", dest, out)
	}

	if _, err := execute(t, "config", "init", "--path", dest); err == nil {
		t.Error("expected error when config already exists")
	}
	if _, err := execute(t, "config", "init", "--path", dest, "--overwrite"); err != nil {
		t.Errorf("overwrite returned error: %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	path := writeTrack(t, sampleTrack)
	cacheDir := t.TempDir()

	// THUMBCUE_CACHE_DIR is reset by execute, so point the config at it
	configPath := filepath.Join(t.TempDir(), "thumbcue.toml")
	body := "[cache]\ndir = \"" + filepath.ToSlash(cacheDir) + "\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := execute(t, "--config", configPath, "parse", path, "-f", "json"); err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	out, err := execute(t, "--config", configPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear returned error: %v", err)
	}
	if !strings.Contains(out, "Removed 1 cached track") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLicense(t *testing.T) {
	out, err := execute(t, "license")
	if err != nil {
		t.Fatalf("license returned error: %v", err)
	}
	if !strings.Contains(out, "MIT License") {
		t.Errorf("unexpected license output %q", out)
	}
}

func TestResolveGenerateOptions(t *testing.T) {
	defaults := config.Default()
	cfg = &defaults
	t.Cleanup(func() { cfg = nil })

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, opts generateOptions)
		wantErr bool
	}{
		{
			name: "config defaults",
			check: func(t *testing.T, opts generateOptions) {
				if opts.Interval != 10*time.Second || opts.Width != 160 || opts.Height != 90 {
					t.Errorf("unexpected defaults %+v", opts)
				}
				if opts.OutDir != filepath.Join("videos", "movie_thumbs") {
					t.Errorf("unexpected out dir %q", opts.OutDir)
				}
				if opts.TrackPath != filepath.Join("videos", "movie_thumbs.vtt") {
					t.Errorf("unexpected track path %q", opts.TrackPath)
				}
			},
		},
		{
			name: "flags override",
			args: []string{"--interval", "2.5", "--width", "-1", "--height", "120", "--prefix", "f", "--concurrency", "2", "--out-dir", "x", "-o", "x/t.vtt"},
			check: func(t *testing.T, opts generateOptions) {
				if opts.Interval != 2500*time.Millisecond {
					t.Errorf("unexpected interval %v", opts.Interval)
				}
				if opts.Width != -1 || opts.Height != 120 || opts.Prefix != "f" || opts.Concurrency != 2 {
					t.Errorf("unexpected options %+v", opts)
				}
				if opts.OutDir != "x" || opts.TrackPath != "x/t.vtt" {
					t.Errorf("unexpected paths %+v", opts)
				}
			},
		},
		{name: "zero interval", args: []string{"--interval", "0"}, wantErr: true},
		{name: "zero concurrency", args: []string{"--concurrency", "0"}, wantErr: true},
		{name: "both sizes automatic", args: []string{"--width", "-1", "--height", "-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(rootCmd)
			t.Cleanup(func() { resetFlags(rootCmd) })

			if err := generateCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			opts, err := resolveGenerateOptions(generateCmd, filepath.Join("videos", "movie.mp4"))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, opts)
		})
	}
}
