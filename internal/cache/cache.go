// Package cache persists parsed cue sequences so a track that has not
// changed is not parsed again.
//
// Entries are addressed by a keyed BLAKE3 digest of the raw document,
// encoded as deterministic CBOR and compressed with zstd. A lock file in
// the cache directory serialises access between processes. Any entry that
// cannot be read back is treated as a miss.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/mgpai22/thumbcue/internal/logging"
	"github.com/mgpai22/thumbcue/internal/webvtt"
)

const (
	entryVersion = 1
	entryExt     = ".cue.zst"
	lockName     = ".lock"
)

// documentKey separates track digests from any other BLAKE3 use. ASCII
// name, zero padded to the 32 bytes NewKeyed requires.
var documentKey = [32]byte{
	't', 'h', 'u', 'm', 'b', 'c', 'u', 'e', '.', 't', 'r', 'a', 'c', 'k',
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("cache: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("cache: zstd decoder initialization failed: " + err.Error())
	}
}

type entry struct {
	Version int          `cbor:"version"`
	Cues    []webvtt.Cue `cbor:"cues"`
}

// Cache is a directory of parsed tracks. The zero-configured cache (empty
// dir) is valid and never stores anything.
type Cache struct {
	dir    string
	logger *logging.Logger
	mu     sync.Mutex
	lock   *flock.Flock
}

// New creates dir if needed. An empty dir disables the cache.
func New(dir string, logger *logging.Logger) (*Cache, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Cache{dir: strings.TrimSpace(dir), logger: logger}
	if c.dir == "" {
		return c, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %q: %w", c.dir, err)
	}
	c.lock = flock.New(filepath.Join(c.dir, lockName))
	return c, nil
}

// Enabled reports whether entries are persisted.
func (c *Cache) Enabled() bool {
	return c != nil && c.dir != ""
}

// Dir is the cache directory, empty when disabled.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key is the hex digest under which document is stored.
func Key(document []byte) string {
	hasher, err := blake3.NewKeyed(documentKey[:])
	if err != nil {
		panic("cache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(document)
	return hex.EncodeToString(hasher.Sum(nil))
}

// Get returns the cues stored for document.
func (c *Cache) Get(document []byte) ([]webvtt.Cue, bool) {
	if !c.Enabled() {
		return nil, false
	}
	key := Key(document)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.lock.RLock(); err != nil {
		c.logger.Warnw("Failed to lock track cache", "dir", c.dir, "error", err)
		return nil, false
	}
	defer func() { _ = c.lock.Unlock() }()

	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warnw("Failed to read cache entry", "key", key, "error", err)
		}
		return nil, false
	}

	cues, err := decodeEntry(data)
	if err != nil {
		c.logger.Debugw("Ignoring unreadable cache entry", "key", key, "error", err)
		return nil, false
	}

	c.logger.Debugw("Track cache hit", "key", key, "cues", len(cues))
	return cues, true
}

// Put stores cues for document, replacing any previous entry.
func (c *Cache) Put(document []byte, cues []webvtt.Cue) error {
	if !c.Enabled() {
		return nil
	}
	key := Key(document)

	data, err := encodeEntry(cues)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("lock track cache: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	path := c.entryPath(key)
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("persist cache entry: %w", err)
	}

	c.logger.Debugw("Cached parsed track", "key", key, "cues", len(cues))
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (c *Cache) Clear() (int, error) {
	if !c.Enabled() {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("lock track cache: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+entryExt))
	if err != nil {
		return 0, fmt.Errorf("list cache entries: %w", err)
	}

	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove cache entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

func encodeEntry(cues []webvtt.Cue) ([]byte, error) {
	raw, err := encMode.Marshal(entry{Version: entryVersion, Cues: cues})
	if err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

func decodeEntry(data []byte) ([]webvtt.Cue, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}

	var e entry
	if err := decMode.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("cbor decode: %w", err)
	}
	if e.Version != entryVersion {
		return nil, fmt.Errorf("unsupported entry version %d", e.Version)
	}
	return e.Cues, nil
}
