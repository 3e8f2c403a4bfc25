package webvtt

import (
	"strings"

	"github.com/mgpai22/thumbcue/internal/logging"
)

const (
	// HeaderMarker must appear on the first line of a track.
	HeaderMarker = "WEBVTT"

	timingDelimiter = "-->"

	invalidHeaderMessage = "invalid WebVTT format: file should start with WEBVTT"
)

// Parser turns track documents into cues. The logger receives the header
// diagnostic; a Parser is safe for concurrent use.
type Parser struct {
	logger *logging.Logger
}

func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{logger: logger}
}

var defaultParser = NewParser(nil)

// Parse parses document with a parser that discards diagnostics.
func Parse(document string) []Cue {
	return defaultParser.Parse(document)
}

// Parse returns the cues of document in document order. A document whose
// first line lacks the WEBVTT marker yields nil and one warning; malformed
// cue blocks are skipped.
func (p *Parser) Parse(document string) []Cue {
	lines := splitLines(document)

	if !hasHeader(lines) {
		p.logger.Warnw(invalidHeaderMessage, "expected", HeaderMarker)
		return nil
	}

	var cues []Cue
	for i := 1; i < len(lines); {
		if !isTimingLine(strings.TrimSpace(lines[i])) {
			i++
			continue
		}

		cue, next, ok := p.consumeCue(lines, i)
		if ok {
			cues = append(cues, cue)
		}
		i = next
	}

	p.logger.Debugw("Parsed WebVTT track",
		"lines", len(lines),
		"cues", len(cues),
	)

	return cues
}

// consumeCue reads the cue whose timing line is lines[i]. next is where
// scanning resumes: the line after a rejected timing line, otherwise the
// blank or timing line that ended the cue text.
func (p *Parser) consumeCue(lines []string, i int) (Cue, int, bool) {
	timing := strings.TrimSpace(lines[i])

	start, end, ok := p.parseTiming(timing, i)
	if !ok {
		return Cue{}, i + 1, false
	}

	text, next := collectText(lines, i+1)
	if len(text) == 0 {
		p.logger.Debugw("Dropping cue without text", "line", i+1)
		return Cue{}, next, false
	}

	return Cue{
		StartTime: start,
		EndTime:   end,
		Text:      strings.Join(text, "\n"),
	}, next, true
}

func (p *Parser) parseTiming(line string, index int) (float64, float64, bool) {
	parts := strings.Split(line, timingDelimiter)
	if len(parts) != 2 {
		p.logger.Debugw("Skipping malformed timing line", "line", index+1)
		return 0, 0, false
	}

	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		p.logger.Debugw("Skipping timing line with missing operand", "line", index+1)
		return 0, 0, false
	}

	start, err := ParseTimestamp(left)
	if err != nil {
		p.logger.Debugw("Skipping cue with bad start time", "line", index+1, "error", err)
		return 0, 0, false
	}
	end, err := ParseTimestamp(right)
	if err != nil {
		p.logger.Debugw("Skipping cue with bad end time", "line", index+1, "error", err)
		return 0, 0, false
	}

	return start, end, true
}

// collectText gathers trimmed lines from lines[from:] up to the first blank
// or timing line, and returns the index of that stopping line.
func collectText(lines []string, from int) ([]string, int) {
	var text []string
	i := from
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isTimingLine(line) {
			break
		}
		text = append(text, line)
	}
	return text, i
}

func splitLines(document string) []string {
	document = strings.TrimPrefix(document, "\ufeff")
	document = strings.ReplaceAll(document, "\r\n", "\n")
	document = strings.ReplaceAll(document, "\r", "\n")
	document = strings.TrimSpace(document)
	if document == "" {
		return nil
	}
	return strings.Split(document, "\n")
}

func hasHeader(lines []string) bool {
	return len(lines) > 0 && strings.Contains(lines[0], HeaderMarker)
}

func isTimingLine(line string) bool {
	return strings.Contains(line, timingDelimiter)
}
