package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/aweris/locker/internal/compression"
)

// DefaultConcurrency bounds parallel reads in GetMulti.
const DefaultConcurrency = 4

// Local implements Store using the local filesystem.
//
// Storage layout (namespace-isolated):
//
//	basePath/namespace/
//	  keys/
//	    incognitobox_games          (zstd or raw value)
//	    incognitobox_authenticated
//
// Values are replaced with a temp file + rename, so readers never see a
// partially written value.
type Local struct {
	dir         string
	namespace   string
	cache       Cache
	compressor  *compression.Compressor
	concurrency int
}

// NewLocal opens (creating if needed) the namespace under basePath.
// The compressor is borrowed: closing the store does not close it.
func NewLocal(basePath, namespace string, cacheSize int, compressor *compression.Compressor) (*Local, error) {
	if namespace == "" {
		namespace = "default"
	}
	dir := filepath.Join(basePath, fileName(namespace), "keys")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return &Local{
		dir:         dir,
		namespace:   namespace,
		cache:       NewLRUCache(cacheSize),
		compressor:  compressor,
		concurrency: DefaultConcurrency,
	}, nil
}

// SetConcurrency sets the number of parallel reads for GetMulti.
func (s *Local) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

func (s *Local) Get(key string) (string, bool, error) {
	// 1. Check memory cache
	if v, ok := s.cache.Get(key); ok {
		return v, true, nil
	}

	// 2. Read from disk
	raw, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	data, err := s.compressor.Decompress(raw)
	if err != nil {
		return "", false, fmt.Errorf("failed to decompress key %s: %w", key, err)
	}

	// 3. Cache and return
	v := string(data)
	s.cache.Add(key, v)
	return v, true, nil
}

func (s *Local) Set(key, value string) error {
	path := s.keyPath(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(s.compressor.Compress([]byte(value))); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace key %s: %w", key, err)
	}

	s.cache.Add(key, value)
	return nil
}

func (s *Local) Remove(key string) error {
	s.cache.Remove(key)
	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// GetMulti reads keys in parallel. Absent keys are omitted from the result.
func (s *Local) GetMulti(ctx context.Context, keys []string) (map[string]string, error) {
	var mu sync.Mutex
	result := make(map[string]string, len(keys))

	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx).WithCancelOnError()
	for _, key := range keys {
		key := key
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, ok, err := s.Get(key)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				result[key] = v
				mu.Unlock()
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Local) Close() error {
	s.cache.Clear()
	return nil
}

func (s *Local) keyPath(key string) string {
	return filepath.Join(s.dir, fileName(key))
}
