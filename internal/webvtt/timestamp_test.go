package webvtt

import (
	"errors"
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"01:30:15.500", 5415.5},
		{"05:30.000", 330},
		{"00:00:01.234", 1.234},
		{"59:59.999", 3599.999},
		{"60:00.000", 3600},
		{"12", 12},
		{"7.25", 7.25},
		{"2:03", 123},
		{"100:00:00.000", 360000},
		{" 00:10.000 ", 10},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestampRejects(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"abc",
		"00:aa",
		"-1",
		"+1",
		"1e3",
		"Inf",
		"NaN",
		"0x10",
		"1.",
		".5",
		"1:2:3:4",
		":30",
		"00:",
		"01.5:00",
		"1 2",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimestamp(input)
			if err == nil {
				t.Fatalf("ParseTimestamp(%q) expected error", input)
			}
			if !errors.Is(err, ErrInvalidTimestamp) {
				t.Errorf("expected ErrInvalidTimestamp, got %v", err)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{1.234, "00:00:01.234"},
		{5415.5, "01:30:15.500"},
		{3599.999, "00:59:59.999"},
		{3599.9996, "01:00:00.000"},
		{-3, "00:00:00.000"},
		{360000, "100:00:00.000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
