// Package store implements the key-value storage the locker persists into.
//
// The Store interface mirrors a browser's local storage: synchronous
// Get/Set/Remove over string keys and values. Backends:
// - Memory: process-local map, used by tests and throwaway sessions
// - Local: one file per key with zstd and an LRU read cache
// - Bolt: a single bbolt database file, one bucket per namespace
package store

import (
	"context"
	"net/url"
	"strings"
)

// Store handles key-value persistence.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases the backend.
	Close() error
}

// MultiGetter is implemented by backends that can read several keys at once.
// Absent keys are left out of the result.
type MultiGetter interface {
	GetMulti(ctx context.Context, keys []string) (map[string]string, error)
}

// Drivers
const (
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// GetMulti reads keys through s, in parallel when the backend supports it.
func GetMulti(ctx context.Context, s Store, keys []string) (map[string]string, error) {
	if mg, ok := s.(MultiGetter); ok {
		return mg.GetMulti(ctx, keys)
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, ok, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = v
		}
	}
	return out, nil
}

// fileName maps a key to a single path element. The mapping is reversible
// with url.PathUnescape, so distinct keys never share a file.
func fileName(key string) string {
	switch key {
	case "":
		return "%"
	case ".", "..":
		return strings.Repeat("%2E", len(key))
	}
	return strings.ReplaceAll(url.PathEscape(key), ":", "%3A")
}
