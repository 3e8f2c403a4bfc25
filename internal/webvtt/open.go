package webvtt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFile returns the raw contents of a local track file.
func ReadFile(path string) ([]byte, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".vtt" {
		return nil, fmt.Errorf("unsupported track format: %q (expected .vtt)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VTT file: %w", err)
	}
	return data, nil
}

// Open reads and parses a local track file. Only I/O problems are errors;
// document problems follow Parse semantics.
func (p *Parser) Open(path string) ([]Cue, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(string(data)), nil
}
