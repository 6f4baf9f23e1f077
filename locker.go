package locker

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/aweris/locker/internal/compression"
)

// Locker ties the session gate and the link store to one storage backend.
type Locker struct {
	storage    Storage
	compressor *compression.Compressor
	gate       *Gate
	links      *Links
	logger     *slog.Logger
}

// Open creates or opens a locker.
//
// Local-only usage with defaults:
//
//	l, _ := locker.Open()
//	defer l.Close()
func Open(opts ...Option) (*Locker, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	storage := options.Storage
	var compressor *compression.Compressor
	if storage == nil {
		var err error
		storage, compressor, err = openStorage(options)
		if err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	gateKey := options.KeyPrefix + "_authenticated"
	logger.Debug("Opened locker", "driver", options.Driver, "data_dir", options.DataDir, "namespace", options.Namespace)

	return &Locker{
		storage:    storage,
		compressor: compressor,
		logger:     logger,
		gate: &Gate{
			storage:  storage,
			key:      gateKey,
			verifier: options.Verifier,
			delay:    options.LoginDelay,
			logger:   logger,
		},
		links: &Links{
			storage:  storage,
			prefix:   options.KeyPrefix,
			reserved: gateKey,
			seeds:    options.Seeds,
			loaded:   make(map[string][]Link),
			clock:    options.Clock,
			newID:    options.NewID,
			opener:   options.Opener,
			logger:   logger,
		},
	}, nil
}

// Gate returns the session gate.
func (l *Locker) Gate() *Gate { return l.gate }

// Links returns the link store.
func (l *Locker) Links() *Links { return l.links }

// Preload loads the given kinds up front, reading their keys in parallel when
// the backend supports it.
func (l *Locker) Preload(ctx context.Context, kinds ...string) error {
	return l.links.preload(ctx, kinds)
}

// Close releases the storage backend and the compressor.
func (l *Locker) Close() error {
	var result *multierror.Error
	if err := l.storage.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if l.compressor != nil {
		if err := l.compressor.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
