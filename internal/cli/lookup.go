package cli

import (
	"fmt"
	"io"

	"github.com/mgpai22/thumbcue/internal/thumbnail"
	"github.com/mgpai22/thumbcue/internal/webvtt"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [track.vtt]",
	Short: "Find the thumbnail shown at a playback time",
	Long: `Find the thumbnail active at one or more playback times.

Times are given in seconds (83.5) or as a timestamp (01:23.500). A cue
covers [start, end): at a shared boundary the later cue wins.

Examples:
  thumbcue lookup movie_thumbs.vtt --at 83.5
  thumbcue lookup movie_thumbs.vtt --at 00:10 --at 1:02:03.250 -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().
		StringSlice("at", nil, "Playback time in seconds or [HH:]MM:SS.mmm (repeatable)")
	lookupCmd.Flags().
		StringP("format", "f", "", "Output format (table, json, yaml; default from config)")
	lookupCmd.Flags().
		String("base-path", "", "Directory or URL that relative image references resolve against")
	_ = lookupCmd.MarkFlagRequired("at")
}

// lookupResult is one answered query.
type lookupResult struct {
	At        float64              `json:"at" yaml:"at"`
	Label     string               `json:"label" yaml:"label"`
	Found     bool                 `json:"found" yaml:"found"`
	Thumbnail *thumbnail.Thumbnail `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	trackPath := args[0]

	atValues, _ := cmd.Flags().GetStringSlice("at")
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	times := make([]float64, 0, len(atValues))
	for _, v := range atValues {
		t, err := parsePlaybackTime(v)
		if err != nil {
			return err
		}
		times = append(times, t)
	}

	store, err := newStore(cmd)
	if err != nil {
		return err
	}

	track, err := store.Load(cmd.Context(), trackPath)
	if err != nil {
		return err
	}

	results := make([]lookupResult, 0, len(times))
	for _, t := range times {
		res := lookupResult{At: t, Label: thumbnail.FormatClock(t)}
		if th, ok := track.At(t); ok {
			res.Found = true
			res.Thumbnail = &th
		}
		logger.Debugw("Looked up playback time",
			"at", t,
			"found", res.Found,
		)
		results = append(results, res)
	}

	out, closeOut, err := openOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	format, err := resolveFormat(formatStr, cfg.Output.Format, out)
	if err != nil {
		closeOut()
		return err
	}

	if err := writeLookups(out, format, results); err != nil {
		closeOut()
		return fmt.Errorf("failed to write lookup results: %w", err)
	}
	return closeOut()
}

// parsePlaybackTime accepts plain seconds ("83.5") or a timestamp
// ("01:23.500"); both go through the cue timestamp grammar.
func parsePlaybackTime(value string) (float64, error) {
	secs, err := webvtt.ParseTimestamp(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --at value %q: %w", value, err)
	}
	return secs, nil
}

func writeLookups(w io.Writer, format string, results []lookupResult) error {
	switch format {
	case formatJSON:
		return writeJSON(w, results)
	case formatYAML:
		return writeYAML(w, results)
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Label, "", "", "", ""}
		if r.Thumbnail != nil {
			row[1] = webvtt.FormatTimestamp(r.Thumbnail.StartTime)
			row[2] = webvtt.FormatTimestamp(r.Thumbnail.EndTime)
			row[3] = r.Thumbnail.ImageURL
			row[4] = region(r.Thumbnail.Coordinates)
		} else {
			row[3] = "(none)"
		}
		rows = append(rows, row)
	}
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"At", "Start", "End", "Image", "Region"},
		rows,
		[]columnAlignment{alignRight},
	))
	return err
}
