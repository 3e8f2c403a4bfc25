package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	envFFmpegPath  = "THUMBCUE_FFMPEG_PATH"
	envFFprobePath = "THUMBCUE_FFPROBE_PATH"
	envCacheDir    = "THUMBCUE_CACHE_DIR"
)

func (c *Config) normalize() error {
	c.normalizeThumbnails()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeFFmpeg(); err != nil {
		return err
	}
	c.normalizeOutput()
	return nil
}

func (c *Config) normalizeThumbnails() {
	c.Thumbnails.Prefix = strings.TrimSpace(c.Thumbnails.Prefix)
	if c.Thumbnails.Prefix == "" {
		c.Thumbnails.Prefix = defaultPrefix
	}
	// base_path may be a URL, so it is not expanded like a file path
	c.Thumbnails.BasePath = strings.TrimSpace(c.Thumbnails.BasePath)
}

func (c *Config) normalizeCache() error {
	if value, ok := os.LookupEnv(envCacheDir); ok && strings.TrimSpace(value) != "" {
		c.Cache.Dir = value
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	var err error
	if c.Cache.Dir, err = expandPath(strings.TrimSpace(c.Cache.Dir)); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() error {
	if c.FFmpeg.FFmpegPath == "" {
		if value, ok := os.LookupEnv(envFFmpegPath); ok {
			c.FFmpeg.FFmpegPath = value
		}
	}
	if c.FFmpeg.FFprobePath == "" {
		if value, ok := os.LookupEnv(envFFprobePath); ok {
			c.FFmpeg.FFprobePath = value
		}
	}

	var err error
	if c.FFmpeg.FFmpegPath, err = expandPath(strings.TrimSpace(c.FFmpeg.FFmpegPath)); err != nil {
		return fmt.Errorf("ffmpeg.ffmpeg_path: %w", err)
	}
	if c.FFmpeg.FFprobePath, err = expandPath(strings.TrimSpace(c.FFmpeg.FFprobePath)); err != nil {
		return fmt.Errorf("ffmpeg.ffprobe_path: %w", err)
	}
	if c.FFmpeg.Concurrency == 0 {
		c.FFmpeg.Concurrency = defaultConcurrency
	}
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
}
