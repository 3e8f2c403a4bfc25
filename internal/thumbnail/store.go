package thumbnail

import (
	"context"

	"github.com/mgpai22/thumbcue/internal/logging"
	"github.com/mgpai22/thumbcue/internal/webvtt"
)

// CueCache remembers parse results by document content.
type CueCache interface {
	Get(document []byte) ([]webvtt.Cue, bool)
	Put(document []byte, cues []webvtt.Cue) error
}

// Store loads local track files into Tracks, reusing cached parses.
type Store struct {
	parser   *webvtt.Parser
	cache    CueCache
	basePath string
	logger   *logging.Logger
}

// NewStore builds a store; cache may be nil.
func NewStore(logger *logging.Logger, cache CueCache, basePath string) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		parser:   webvtt.NewParser(logger),
		cache:    cache,
		basePath: basePath,
		logger:   logger,
	}
}

// Load reads the track at path. Only read failures are errors: an invalid
// document loads as an empty track after the parser's warning.
func (s *Store) Load(ctx context.Context, path string) (*Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := webvtt.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cues := s.cues(data)
	track := NewTrack(cues, s.basePath)
	s.logger.Debugw("Loaded thumbnail track",
		"path", path,
		"thumbnails", track.Len(),
		"anomalies", len(track.Anomalies()),
	)
	return track, nil
}

func (s *Store) cues(data []byte) []webvtt.Cue {
	if s.cache != nil {
		if cues, ok := s.cache.Get(data); ok {
			return cues
		}
	}

	cues := s.parser.Parse(string(data))

	// empty results are not cached so a bad track warns on every load
	if s.cache != nil && len(cues) > 0 {
		if err := s.cache.Put(data, cues); err != nil {
			s.logger.Warnw("Failed to cache parsed track", "error", err)
		}
	}
	return cues
}
