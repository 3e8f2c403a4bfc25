package thumbnail

import (
	"fmt"
	"path"
	"time"

	"github.com/mgpai22/thumbcue/internal/webvtt"
)

// Frame is one planned thumbnail: where to grab it in the video and the
// cue that will reference it.
type Frame struct {
	Index int
	// SeekTime is the midpoint of the cue, which avoids fade-in black
	// frames at cue boundaries.
	SeekTime time.Duration
	Name     string
	Cue      webvtt.Cue
}

// Generator plans a thumbnail track for a video of known duration.
type Generator struct {
	Interval time.Duration
	Prefix   string
	// ImageDir is prepended to image names in cue text, relative to the
	// track file. Empty means the images sit next to the track.
	ImageDir string
}

func NewGenerator() *Generator {
	return &Generator{
		Interval: 10 * time.Second,
		Prefix:   "thumb",
	}
}

// Plan splits [0, duration) into contiguous cues of Interval; the last cue
// is cut short at duration.
func (g *Generator) Plan(duration time.Duration) ([]Frame, error) {
	if g.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", g.Interval)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %v", duration)
	}

	var frames []Frame
	for i := 0; ; i++ {
		start := time.Duration(i) * g.Interval
		if start >= duration {
			break
		}
		end := start + g.Interval
		if end > duration {
			end = duration
		}

		name := fmt.Sprintf("%s_%04d.jpg", g.Prefix, i+1)
		ref := name
		if g.ImageDir != "" {
			ref = path.Join(g.ImageDir, name)
		}

		frames = append(frames, Frame{
			Index:    i,
			SeekTime: start + (end-start)/2,
			Name:     name,
			Cue: webvtt.Cue{
				StartTime: start.Seconds(),
				EndTime:   end.Seconds(),
				Text:      ref,
			},
		})
	}

	return frames, nil
}

// Cues returns the cue of each frame, in order.
func Cues(frames []Frame) []webvtt.Cue {
	cues := make([]webvtt.Cue, len(frames))
	for i, f := range frames {
		cues[i] = f.Cue
	}
	return cues
}
