package locker

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aweris/locker/internal/browser"
	"github.com/aweris/locker/internal/store"
)

// Storage drivers
const (
	DriverFile   = store.DriverFile
	DriverBolt   = store.DriverBolt
	DriverMemory = store.DriverMemory
)

// DefaultKeyPrefix is prepended to every storage key.
const DefaultKeyPrefix = "incognitobox"

// Options configures a Locker.
type Options struct {
	DataDir          string
	Driver           string
	Namespace        string
	Compression      bool
	CompressionLevel string
	CacheSize        int
	Concurrency      int
	KeyPrefix        string

	// Storage overrides Driver when set.
	Storage Storage

	Verifier   Verifier
	Opener     Opener
	LoginDelay time.Duration
	Clock      func() time.Time
	NewID      func() string
	Logger     *slog.Logger
	Seeds      map[string][]Link
}

// Option is a functional option for configuring Open.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		DataDir:          DefaultDataDir(),
		Driver:           DriverFile,
		Namespace:        "default",
		Compression:      true,
		CompressionLevel: "default",
		CacheSize:        64,
		Concurrency:      store.DefaultConcurrency,
		KeyPrefix:        DefaultKeyPrefix,
		Verifier:         DefaultVerifier(),
		Opener:           browser.System{},
		Clock:            time.Now,
		NewID:            uuid.NewString,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		Seeds:            make(map[string][]Link),
	}
}

// WithDataDir sets the directory the file and bolt drivers write into.
func WithDataDir(dir string) Option {
	return func(o *Options) { o.DataDir = dir }
}

// WithDriver selects the storage backend (file, bolt or memory).
func WithDriver(driver string) Option {
	return func(o *Options) { o.Driver = driver }
}

// WithNamespace isolates this locker's keys from other namespaces in the same data dir.
func WithNamespace(ns string) Option {
	return func(o *Options) { o.Namespace = ns }
}

// WithCompression enables zstd at the given level (fastest, default, better, best).
func WithCompression(level string) Option {
	return func(o *Options) {
		o.Compression = true
		o.CompressionLevel = level
	}
}

// WithoutCompression stores values raw.
func WithoutCompression() Option {
	return func(o *Options) { o.Compression = false }
}

// WithCacheSize bounds the file driver's read cache. Zero disables it.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.CacheSize = n
		}
	}
}

// WithConcurrency bounds the parallel reads Preload issues against the file driver.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithKeyPrefix sets the prefix of every storage key. Empty keeps the default.
func WithKeyPrefix(prefix string) Option {
	return func(o *Options) {
		if prefix != "" {
			o.KeyPrefix = prefix
		}
	}
}

// WithStorage uses s instead of opening a driver. Close closes s.
func WithStorage(s Storage) Option {
	return func(o *Options) { o.Storage = s }
}

// WithVerifier sets how login credentials are checked.
func WithVerifier(v Verifier) Option {
	return func(o *Options) { o.Verifier = v }
}

// WithOpener sets what Links.Open hands URLs to.
func WithOpener(op Opener) Option {
	return func(o *Options) { o.Opener = op }
}

// WithLoginDelay pauses every login attempt before answering.
func WithLoginDelay(d time.Duration) Option {
	return func(o *Options) { o.LoginDelay = d }
}

// WithClock sets the time source for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Clock = now }
}

// WithIDGenerator sets the link id source. Collisions within a kind are
// resolved by the store.
func WithIDGenerator(next func() string) Option {
	return func(o *Options) { o.NewID = next }
}

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSeed sets the links a kind starts with when nothing is persisted for it.
func WithSeed(kind string, links ...Link) Option {
	return func(o *Options) { o.Seeds[kind] = links }
}

// DefaultDataDir follows XDG_DATA_HOME.
func DefaultDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "locker")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "locker")
	}
	return ".locker"
}
