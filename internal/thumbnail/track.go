package thumbnail

import "github.com/mgpai22/thumbcue/internal/webvtt"

// Track is a loaded thumbnail track. It is read-only after NewTrack and
// safe for concurrent lookups.
type Track struct {
	thumbs []Thumbnail
	index  *webvtt.Index
}

func NewTrack(cues []webvtt.Cue, basePath string) *Track {
	return &Track{
		thumbs: ProjectAll(cues, basePath),
		index:  webvtt.NewIndex(cues),
	}
}

// Len is the number of thumbnails.
func (t *Track) Len() int {
	return len(t.thumbs)
}

// Thumbnails returns a copy of the projected thumbnails.
func (t *Track) Thumbnails() []Thumbnail {
	out := make([]Thumbnail, len(t.thumbs))
	copy(out, t.thumbs)
	return out
}

// At returns the thumbnail active at seconds, using the same exclusive end
// bound as webvtt.Lookup.
func (t *Track) At(seconds float64) (Thumbnail, bool) {
	i := t.index.Find(seconds)
	if i < 0 {
		return Thumbnail{}, false
	}
	return t.thumbs[i], true
}

// Anomalies lists thumbnails whose end precedes their start. The parser
// accepts these; callers that want stricter tracks can reject on them.
func (t *Track) Anomalies() []Thumbnail {
	var out []Thumbnail
	for _, th := range t.thumbs {
		if th.EndTime < th.StartTime {
			out = append(out, th)
		}
	}
	return out
}
