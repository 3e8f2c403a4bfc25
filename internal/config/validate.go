package config

import (
	"errors"
	"fmt"
	"math"
)

// OutputFormats lists the accepted values for output.format.
var OutputFormats = []string{"auto", "table", "json", "yaml"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	if c.Thumbnails.Width <= 0 && c.Thumbnails.Width != -1 {
		return errors.New("thumbnails.width must be positive (or -1 to keep aspect ratio)")
	}
	if c.Thumbnails.Height <= 0 && c.Thumbnails.Height != -1 {
		return errors.New("thumbnails.height must be positive (or -1 to keep aspect ratio)")
	}
	if c.Thumbnails.Width == -1 && c.Thumbnails.Height == -1 {
		return errors.New("thumbnails.width and thumbnails.height cannot both be -1")
	}
	interval := c.Thumbnails.IntervalSeconds
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return errors.New("thumbnails.interval_seconds must be positive")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.Concurrency < 1 {
		return errors.New("ffmpeg.concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateOutput() error {
	for _, format := range OutputFormats {
		if c.Output.Format == format {
			return nil
		}
	}
	return fmt.Errorf("output.format %q is not one of %v", c.Output.Format, OutputFormats)
}
