package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pehjota/addonsync"
	"github.com/pehjota/addonsync/internal/compression"
)

const defaultCacheSize = 64

// LocalStore implements Store on the local filesystem.
//
// Storage layout:
//
//	baseDir/
//	  objects/
//	    ab/cd123...      (content-addressed objects, zstd-compressed)
//	  refs/
//	    Addon_Name.json  (Meta)
type LocalStore struct {
	baseDir    string
	cache      *lru.Cache[string, []byte]
	compressor *compression.Compressor
}

func NewLocalStore(baseDir string, cacheSize, compressionLevel int, compressionEnabled bool) (*LocalStore, error) {
	objectsDir := filepath.Join(baseDir, "objects")
	refsDir := filepath.Join(baseDir, "refs")

	for _, dir := range []string{objectsDir, refsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	compressor, err := compression.NewCompressor(compressionLevel, compressionEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	return &LocalStore{
		baseDir:    baseDir,
		cache:      cache,
		compressor: compressor,
	}, nil
}

// Get retrieves an object by digest.
func (s *LocalStore) Get(ctx context.Context, digest string) ([]byte, error) {
	if data, ok := s.cache.Get(digest); ok {
		return data, nil
	}

	compressed, err := os.ReadFile(s.objectPath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress object %s: %w", digest, err)
	}

	s.cache.Add(digest, data)
	return data, nil
}

// Put stores an object and returns its sha256 hex digest.
func (s *LocalStore) Put(ctx context.Context, data []byte) (string, error) {
	h := sha256.Sum256(data)
	digest := hex.EncodeToString(h[:])

	path := s.objectPath(digest)
	if _, err := os.Stat(path); err == nil {
		return digest, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, s.compressor.Compress(data), 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	s.cache.Add(digest, data)
	return digest, nil
}

// Has reports whether an object exists.
func (s *LocalStore) Has(ctx context.Context, digest string) (bool, error) {
	if s.cache.Contains(digest) {
		return true, nil
	}

	_, err := os.Stat(s.objectPath(digest))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Meta retrieves the metadata of a tracked add-on.
func (s *LocalStore) Meta(name string) (*Meta, error) {
	if !addonsync.NameLegal(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAddon, name)
	}

	data, err := os.ReadFile(s.refPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAddon, name)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	meta := &Meta{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", name, err)
	}
	return meta, nil
}

// PutMeta records or replaces the metadata of an add-on. The write is
// atomic so a crash cannot leave a truncated reference behind.
func (s *LocalStore) PutMeta(meta *Meta) error {
	if !addonsync.NameLegal(meta.Name) {
		return fmt.Errorf("illegal add-on name %q", meta.Name)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	path := s.refPath(meta.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return os.Rename(tmp, path)
}

// List returns the metadata of every tracked add-on, ordered by name.
func (s *LocalStore) List() ([]*Meta, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "refs"))
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var metas []*Meta
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		meta, err := s.Meta(name)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}

	slices.SortFunc(metas, func(a, b *Meta) int { return strings.Compare(a.Name, b.Name) })
	return metas, nil
}

// Close releases the compressor.
func (s *LocalStore) Close() error {
	s.compressor.Close()
	return nil
}

// objectPath returns the filesystem path for an object digest.
// Git-style sharding: objects/ab/cd123...
func (s *LocalStore) objectPath(digest string) string {
	if len(digest) < 2 {
		return filepath.Join(s.baseDir, "objects", digest)
	}
	return filepath.Join(s.baseDir, "objects", digest[:2], digest[2:])
}

func (s *LocalStore) refPath(name string) string {
	return filepath.Join(s.baseDir, "refs", name+".json")
}
