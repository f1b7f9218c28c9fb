package driver

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"autoc/internal/project"
)

// Bump when DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache memoizes per-module compilation results keyed by content
// hash. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiag is one replayable diagnostic. Spans are stored as byte
// offsets and re-anchored to the reloaded file; notes are not cached.
type CachedDiag struct {
	Code     uint16
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
}

// InstRecord is one generic instantiation the module performed,
// replayed into the shared cache on a hit so the cross-module header
// still receives every definition.
type InstRecord struct {
	Kind uint8
	Base string
	Args []string
}

// DiskPayload stores everything needed to skip a module's front end
// and lowering when its content is unchanged.
type DiskPayload struct {
	Schema uint16

	Path        string
	Module      string
	ContentHash project.Digest

	Broken bool
	Diags  []CachedDiag
	Insts  []InstRecord

	// DefinesGenerics marks modules declaring generic types. Such
	// modules are never served from cache: shared emission needs
	// their bound form to specialize definitions.
	DefinesGenerics bool

	HeaderName string
	ImplName   string
	Header     []byte
	Impl       []byte
}

// OpenDiskCache initializes a disk cache under XDG_CACHE_HOME (or
// ~/.cache) for the named tool.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at dir (tests,
// project-local caches).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// Subdirectory keeps the cache root listable and easy to clean.
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// Put atomically serializes a payload under its content hash.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get loads the payload stored under key. A schema mismatch counts as
// a miss so format changes invalidate silently.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, nil // corrupt entry, treat as miss
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// Clear removes every cached module payload.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "mods"))
}
