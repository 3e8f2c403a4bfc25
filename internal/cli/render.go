package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/thumbcue/internal/thumbnail"
	"github.com/mgpai22/thumbcue/internal/webvtt"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// resolveFormat picks the output format: the flag wins over config, and
// "auto" means a table on a terminal and JSON anywhere else.
func resolveFormat(flagValue, configured string, out io.Writer) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = strings.ToLower(strings.TrimSpace(configured))
	}
	switch format {
	case "", formatAuto:
		if isTerminal(out) {
			return formatTable, nil
		}
		return formatJSON, nil
	case formatTable, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// openOutput returns the --output file when set, else the command's stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeThumbnails(w io.Writer, format string, thumbs []thumbnail.Thumbnail) error {
	if thumbs == nil {
		thumbs = []thumbnail.Thumbnail{}
	}
	switch format {
	case formatJSON:
		return writeJSON(w, thumbs)
	case formatYAML:
		return writeYAML(w, thumbs)
	}

	rows := make([][]string, 0, len(thumbs))
	for i, th := range thumbs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			webvtt.FormatTimestamp(th.StartTime),
			webvtt.FormatTimestamp(th.EndTime),
			th.ImageURL,
			region(th.Coordinates),
		})
	}
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"#", "Start", "End", "Image", "Region"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return err
}

func region(r *thumbnail.Rect) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.W, r.H)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
