package cli

import (
	"fmt"

	"github.com/mgpai22/thumbcue/internal/cache"
	"github.com/mgpai22/thumbcue/internal/thumbnail"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [track.vtt]",
	Short: "List the thumbnails in a WebVTT track",
	Long: `Parse a WebVTT thumbnail track and print one row per cue.

Image references are resolved against --base-path (or thumbnails.base_path
in the config), and sprite regions given as #xywh=x,y,w,h are split out.
A file without a WEBVTT header loads as an empty track after a warning.

Examples:
  thumbcue parse movie_thumbs.vtt
  thumbcue parse movie_thumbs.vtt --format json
  thumbcue parse movie_thumbs.vtt --base-path https://cdn.example.com/thumbs -o thumbs.yaml -f yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().
		StringP("format", "f", "", "Output format (table, json, yaml; default from config)")
	parseCmd.Flags().
		String("base-path", "", "Directory or URL that relative image references resolve against")
	parseCmd.Flags().
		Bool("anomalies", false, "Only list cues whose end time precedes their start time")
}

func runParse(cmd *cobra.Command, args []string) error {
	trackPath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	onlyAnomalies, _ := cmd.Flags().GetBool("anomalies")

	store, err := newStore(cmd)
	if err != nil {
		return err
	}

	track, err := store.Load(cmd.Context(), trackPath)
	if err != nil {
		return err
	}

	thumbs := track.Thumbnails()
	if onlyAnomalies {
		thumbs = track.Anomalies()
	}

	logger.Infow("Parsed thumbnail track",
		"path", trackPath,
		"thumbnails", track.Len(),
		"anomalies", len(track.Anomalies()),
	)

	out, closeOut, err := openOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	format, err := resolveFormat(formatStr, cfg.Output.Format, out)
	if err != nil {
		closeOut()
		return err
	}

	if err := writeThumbnails(out, format, thumbs); err != nil {
		closeOut()
		return fmt.Errorf("failed to write thumbnails: %w", err)
	}
	return closeOut()
}

// newStore wires the track store from config and the command's flags.
func newStore(cmd *cobra.Command) (*thumbnail.Store, error) {
	basePath := cfg.Thumbnails.BasePath
	if cmd.Flags().Changed("base-path") {
		basePath, _ = cmd.Flags().GetString("base-path")
	}

	trackCache, err := cache.New(cfg.CacheDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open track cache: %w", err)
	}

	return thumbnail.NewStore(logger, trackCache, basePath), nil
}
