// Package webvtt parses WebVTT thumbnail tracks into time-ranged cues and
// answers which cue is active at a given playback time.
//
// Parsing is best effort: a document without the WEBVTT header yields no
// cues and a single warning on the parser's logger, and malformed cue blocks
// are dropped without affecting the rest of the document.
package webvtt

import "time"

// Cue is a single time-ranged record of a track. Times are in seconds.
type Cue struct {
	StartTime float64 `json:"startTime" yaml:"startTime"`
	EndTime   float64 `json:"endTime" yaml:"endTime"`
	Text      string  `json:"text" yaml:"text"`
}

// Start returns StartTime as a duration.
func (c Cue) Start() time.Duration {
	return secondsToDuration(c.StartTime)
}

// End returns EndTime as a duration.
func (c Cue) End() time.Duration {
	return secondsToDuration(c.EndTime)
}

// Contains reports whether t falls in [StartTime, EndTime).
func (c Cue) Contains(t float64) bool {
	return t >= c.StartTime && t < c.EndTime
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
