package locker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aweris/locker/internal/compression"
	"github.com/aweris/locker/internal/store"
)

// Storage is the key-value facility the locker persists into.
// Re-exported from internal/store for convenience.
type Storage = store.Store

// NewMemoryStorage returns a Storage that lives only as long as the process.
func NewMemoryStorage() Storage {
	return store.NewMemory()
}

// openStorage builds the configured driver. The returned compressor is nil for
// the memory driver.
func openStorage(o *Options) (Storage, *compression.Compressor, error) {
	if o.Driver == DriverMemory {
		return store.NewMemory(), nil, nil
	}
	if o.Driver != DriverFile && o.Driver != DriverBolt {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, o.Driver)
	}

	level, err := compression.ParseLevel(o.CompressionLevel)
	if err != nil {
		return nil, nil, err
	}
	compressor, err := compression.New(level, o.Compression)
	if err != nil {
		return nil, nil, err
	}

	dataDir := expandPath(o.DataDir)
	var s Storage
	switch o.Driver {
	case DriverFile:
		var local *store.Local
		local, err = store.NewLocal(dataDir, o.Namespace, o.CacheSize, compressor)
		if err == nil {
			local.SetConcurrency(o.Concurrency)
			s = local
		}
	case DriverBolt:
		s, err = store.NewBolt(filepath.Join(dataDir, "locker.db"), o.Namespace, compressor)
	}
	if err != nil {
		_ = compressor.Close()
		return nil, nil, err
	}
	return s, compressor, nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
