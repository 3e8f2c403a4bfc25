package webvtt

import "sort"

// Lookup returns the first cue with StartTime <= t < EndTime. The end
// bound is exclusive, so an instant shared by two adjacent cues belongs to
// the later one. Cues may overlap; they are scanned in order.
func Lookup(cues []Cue, t float64) (Cue, bool) {
	for _, cue := range cues {
		if cue.Contains(t) {
			return cue, true
		}
	}
	return Cue{}, false
}

// Index answers Lookup queries for a fixed cue list. When the cues are
// sorted by StartTime and do not overlap it binary searches; otherwise it
// scans. Either way At agrees with Lookup.
type Index struct {
	cues   []Cue
	sorted bool
}

func NewIndex(cues []Cue) *Index {
	owned := make([]Cue, len(cues))
	copy(owned, cues)
	return &Index{
		cues:   owned,
		sorted: disjointAscending(owned),
	}
}

// Len is the number of cues in the index.
func (x *Index) Len() int {
	return len(x.cues)
}

// Cues returns a copy of the indexed cues.
func (x *Index) Cues() []Cue {
	out := make([]Cue, len(x.cues))
	copy(out, x.cues)
	return out
}

// At returns the cue active at t.
func (x *Index) At(t float64) (Cue, bool) {
	if i := x.Find(t); i >= 0 {
		return x.cues[i], true
	}
	return Cue{}, false
}

// Find returns the position of the cue active at t, or -1.
func (x *Index) Find(t float64) int {
	if !x.sorted {
		for i, cue := range x.cues {
			if cue.Contains(t) {
				return i
			}
		}
		return -1
	}

	// first cue starting after t; the candidate is the one before it
	i := sort.Search(len(x.cues), func(i int) bool {
		return x.cues[i].StartTime > t
	})
	if i > 0 && x.cues[i-1].Contains(t) {
		return i - 1
	}
	return -1
}

// disjointAscending reports whether every cue is well formed, starts no
// earlier than its predecessor ends, and so can be binary searched.
func disjointAscending(cues []Cue) bool {
	for i, cue := range cues {
		if cue.EndTime < cue.StartTime {
			return false
		}
		if i > 0 && cue.StartTime < cues[i-1].EndTime {
			return false
		}
	}
	return true
}
