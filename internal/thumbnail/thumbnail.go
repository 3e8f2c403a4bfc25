// Package thumbnail projects parsed cues into thumbnail records and holds a
// loaded track for time lookups.
package thumbnail

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mgpai22/thumbcue/internal/webvtt"
)

const spriteFragment = "xywh="

// Rect locates a thumbnail inside a sprite sheet, in pixels.
type Rect struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Thumbnail is a cue plus the image it points at. It is derived from a cue
// and never written back to it.
type Thumbnail struct {
	StartTime   float64 `json:"startTime" yaml:"startTime"`
	EndTime     float64 `json:"endTime" yaml:"endTime"`
	Text        string  `json:"text" yaml:"text"`
	ImageURL    string  `json:"imageUrl" yaml:"imageUrl"`
	Coordinates *Rect   `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Cue returns the cue the thumbnail was projected from.
func (t Thumbnail) Cue() webvtt.Cue {
	return webvtt.Cue{StartTime: t.StartTime, EndTime: t.EndTime, Text: t.Text}
}

// Project derives a thumbnail from cue. The first text line is the image
// reference, resolved against basePath; a "#xywh=x,y,w,h" fragment becomes
// Coordinates and is removed from ImageURL.
func Project(cue webvtt.Cue, basePath string) Thumbnail {
	ref, _, _ := strings.Cut(cue.Text, "\n")

	image, rect := splitSprite(ref)

	return Thumbnail{
		StartTime:   cue.StartTime,
		EndTime:     cue.EndTime,
		Text:        cue.Text,
		ImageURL:    resolve(basePath, image),
		Coordinates: rect,
	}
}

// ProjectAll projects every cue in order.
func ProjectAll(cues []webvtt.Cue, basePath string) []Thumbnail {
	out := make([]Thumbnail, len(cues))
	for i, cue := range cues {
		out[i] = Project(cue, basePath)
	}
	return out
}

// resolve joins a relative reference onto base. Absolute URLs and rooted
// paths are returned unchanged.
func resolve(base, ref string) string {
	base = strings.TrimSpace(base)
	if base == "" || ref == "" {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return ref
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimPrefix(ref, "./")
}

// splitSprite separates a trailing "#xywh=" fragment. A fragment that does
// not hold four non-negative integers is left in place.
func splitSprite(ref string) (string, *Rect) {
	hash := strings.LastIndex(ref, "#")
	if hash < 0 {
		return ref, nil
	}

	frag := ref[hash+1:]
	if !strings.HasPrefix(frag, spriteFragment) {
		return ref, nil
	}

	fields := strings.Split(strings.TrimPrefix(frag, spriteFragment), ",")
	if len(fields) != 4 {
		return ref, nil
	}

	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return ref, nil
		}
		v[i] = n
	}

	return ref[:hash], &Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
}
