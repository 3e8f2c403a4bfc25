package webvtt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer serialises cues as a WebVTT document.
type Writer struct {
	// Kind, when set, is written as a "Kind:" metadata line after the header.
	Kind string
	// Identifiers numbers each cue block starting at 1.
	Identifiers bool
}

// writes the document to w
func (wr *Writer) Encode(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(HeaderMarker + "\n")
	if wr.Kind != "" {
		fmt.Fprintf(bw, "Kind: %s\n", wr.Kind)
	}
	bw.WriteString("\n")

	for i, cue := range cues {
		if wr.Identifiers {
			fmt.Fprintf(bw, "%d\n", i+1)
		}

		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(bw, "%s %s %s\n",
			FormatTimestamp(cue.StartTime),
			timingDelimiter,
			FormatTimestamp(cue.EndTime))

		// blank lines inside text would end the cue on re-parse
		for _, line := range strings.Split(cue.Text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				bw.WriteString(line + "\n")
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// writes the document to path, creating parent directories
func (wr *Writer) WriteFile(path string, cues []Cue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var sb strings.Builder
	if err := wr.Encode(&sb, cues); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write VTT file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write VTT file: %w", err)
	}
	return nil
}
