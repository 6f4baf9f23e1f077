package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/locker"
	"github.com/aweris/locker/internal/browser"
)

var rootCmd = &cobra.Command{
	Use:          "locker",
	Short:        "Personal link locker",
	Long:         "Store, search, categorize and open your game and app links behind a login gate.",
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/locker/config.yaml)")
	flags.String("data-dir", "", "data directory (default: ~/.local/share/locker)")
	flags.String("driver", "", "storage driver: file, bolt or memory (default: file)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: warn)")

	viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	viper.BindPFlag("storage.driver", flags.Lookup("driver"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOCKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("data_dir", locker.DefaultDataDir())
	viper.SetDefault("storage.driver", locker.DriverFile)
	viper.SetDefault("storage.namespace", "default")
	viper.SetDefault("storage.compression", true)
	viper.SetDefault("storage.compression_level", "default")
	viper.SetDefault("storage.cache_size", 64)
	viper.SetDefault("storage.concurrency", 4)
	viper.SetDefault("key_prefix", locker.DefaultKeyPrefix)
	viper.SetDefault("auth.id", locker.DefaultAgentID)
	viper.SetDefault("auth.code", locker.DefaultAccessCode)
	viper.SetDefault("auth.delay", time.Second)
	viper.SetDefault("log_level", "warn")

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "locker")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "locker")
	}
	return ".locker"
}

type seedConfig struct {
	Title    string `mapstructure:"title"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
}

// openLocker builds a Locker from the merged flag/env/file configuration.
func openLocker() (*locker.Locker, error) {
	logger := newLogger(viper.GetString("log_level"))

	opts := []locker.Option{
		locker.WithLogger(logger),
		locker.WithDataDir(viper.GetString("data_dir")),
		locker.WithDriver(viper.GetString("storage.driver")),
		locker.WithNamespace(viper.GetString("storage.namespace")),
		locker.WithCacheSize(viper.GetInt("storage.cache_size")),
		locker.WithConcurrency(viper.GetInt("storage.concurrency")),
		locker.WithKeyPrefix(viper.GetString("key_prefix")),
		locker.WithVerifier(verifier()),
		locker.WithLoginDelay(viper.GetDuration("auth.delay")),
		locker.WithOpener(browser.System{Command: viper.GetString("opener")}),
	}
	if viper.GetBool("storage.compression") {
		opts = append(opts, locker.WithCompression(viper.GetString("storage.compression_level")))
	} else {
		opts = append(opts, locker.WithoutCompression())
	}

	var seeds map[string][]seedConfig
	if err := viper.UnmarshalKey("seeds", &seeds); err != nil {
		return nil, fmt.Errorf("invalid seeds config: %w", err)
	}
	for kind, entries := range seeds {
		links := make([]locker.Link, 0, len(entries))
		for _, e := range entries {
			links = append(links, locker.Link{Title: e.Title, URL: e.URL, Category: e.Category})
		}
		opts = append(opts, locker.WithSeed(kind, links...))
	}

	return locker.Open(opts...)
}

func verifier() locker.Verifier {
	if hash := viper.GetString("auth.code_hash"); hash != "" {
		return locker.BcryptVerifier{ID: viper.GetString("auth.id"), Hash: hash}
	}
	return locker.StaticVerifier{ID: viper.GetString("auth.id"), Code: viper.GetString("auth.code")}
}

// withLocker opens the locker, runs fn and closes it, keeping fn's error first.
func withLocker(fn func(l *locker.Locker) error) (err error) {
	l, err := openLocker()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := l.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(l)
}

// withUnlocked is withLocker for commands that need a logged-in session.
func withUnlocked(fn func(l *locker.Locker) error) error {
	return withLocker(func(l *locker.Locker) error {
		if !l.Gate().IsAuthenticated() {
			return fmt.Errorf("%w, run `locker login`", locker.ErrLocked)
		}
		return fn(l)
	})
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}
