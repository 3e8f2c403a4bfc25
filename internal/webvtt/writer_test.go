package webvtt

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterEncode(t *testing.T) {
	cues := []Cue{
		{StartTime: 0, EndTime: 10, Text: "thumbs/0001.jpg"},
		{StartTime: 10, EndTime: 20.5, Text: "thumbs/0002.jpg\nsecond"},
	}

	var sb strings.Builder
	w := &Writer{Kind: "thumbnails", Identifiers: true}
	if err := w.Encode(&sb, cues); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	want := "WEBVTT\nKind: thumbnails\n\n" +
		"1\n00:00:00.000 --> 00:00:10.000\nthumbs/0001.jpg\n\n" +
		"2\n00:00:10.000 --> 00:00:20.500\nthumbs/0002.jpg\nsecond\n\n"
	if sb.String() != want {
		t.Errorf("unexpected document:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriterOutputReparses(t *testing.T) {
	cues := []Cue{
		{StartTime: 0, EndTime: 4.5, Text: "a.jpg"},
		{StartTime: 4.5, EndTime: 3725.125, Text: "b.jpg#xywh=0,0,160,90"},
		{StartTime: 3725.125, EndTime: 3730, Text: "c.jpg\nwith caption"},
	}

	path := filepath.Join(t.TempDir(), "nested", "track.vtt")
	if err := (&Writer{}).WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind")
	}

	got, err := NewParser(nil).Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if len(got) != len(cues) {
		t.Fatalf("expected %d cues, got %d", len(cues), len(got))
	}
	for i := range cues {
		if math.Abs(got[i].StartTime-cues[i].StartTime) > 5e-4 ||
			math.Abs(got[i].EndTime-cues[i].EndTime) > 5e-4 {
			t.Errorf("cue %d: times %v-%v, want %v-%v",
				i, got[i].StartTime, got[i].EndTime, cues[i].StartTime, cues[i].EndTime)
		}
		if got[i].Text != cues[i].Text {
			t.Errorf("cue %d: text %q, want %q", i, got[i].Text, cues[i].Text)
		}
	}
}

func TestWriterDropsBlankTextLines(t *testing.T) {
	var sb strings.Builder
	cues := []Cue{{StartTime: 0, EndTime: 1, Text: "a\n\nb"}}
	if err := (&Writer{}).Encode(&sb, cues); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	got := Parse(sb.String())
	if len(got) != 1 || got[0].Text != "a\nb" {
		t.Errorf("unexpected re-parse %+v", got)
	}
}
