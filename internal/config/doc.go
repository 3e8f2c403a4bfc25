// Package config loads, normalizes, and validates thumbcue configuration.
//
// It supplies defaults for sprite geometry and track generation, expands
// user paths, reads TOML files, and honours the THUMBCUE_FFMPEG_PATH,
// THUMBCUE_FFPROBE_PATH and THUMBCUE_CACHE_DIR environment overrides.
package config
