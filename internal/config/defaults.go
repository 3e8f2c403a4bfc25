package config

const (
	defaultThumbnailWidth  = 160
	defaultThumbnailHeight = 90
	defaultIntervalSeconds = 10
	defaultPrefix          = "thumb"
	defaultCacheEnabled    = true
	defaultConcurrency     = 4
	defaultOutputFormat    = "auto"
	defaultConfigLocation  = "~/.config/thumbcue/config.toml"
	projectConfigName      = "thumbcue.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Thumbnails: Thumbnails{
			Width:           defaultThumbnailWidth,
			Height:          defaultThumbnailHeight,
			IntervalSeconds: defaultIntervalSeconds,
			Prefix:          defaultPrefix,
		},
		Cache: Cache{
			Enabled: defaultCacheEnabled,
			Dir:     defaultCacheDir(),
		},
		FFmpeg: FFmpeg{
			Concurrency: defaultConcurrency,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
	}
}
