package cli

import (
	"fmt"

	"github.com/mgpai22/thumbcue/internal/config"
	"github.com/mgpai22/thumbcue/internal/logging"
	"github.com/spf13/cobra"
)

const skipConfigLoad = "skipConfigLoad"

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "thumbcue",
	Short: "Thumbnail tracks for video scrubbing previews",
	Long: `Thumbcue reads, queries and generates WebVTT thumbnail tracks.

A thumbnail track is a WebVTT file whose cues point at preview images,
optionally regions of a sprite sheet (image.jpg#xywh=x,y,w,h), shown
while hovering over a video progress bar.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		if cmd.Annotations[skipConfigLoad] == "true" {
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		logger.Debugw("Loaded configuration",
			"path", path,
			"exists", exists,
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/thumbcue/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
