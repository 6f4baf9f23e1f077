package locker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDrivers(t *testing.T) {
	for _, driver := range []string{DriverFile, DriverBolt} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			opts := []Option{WithDataDir(dir), WithDriver(driver), WithNamespace("test"), WithIDGenerator(counterIDs())}

			l, err := Open(opts...)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if ok, err := l.Gate().AttemptLogin("hitman", "18074478"); err != nil || !ok {
				t.Fatalf("AttemptLogin = %v, %v", ok, err)
			}
			for _, title := range []string{"Chess", "Go", "Tetris"} {
				if _, err := l.Links().Add(KindGames, title, "https://"+title, "Board"); err != nil {
					t.Fatalf("Add failed: %v", err)
				}
			}
			before, _ := l.Links().List(KindGames)
			if err := l.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			l2, err := Open(opts...)
			if err != nil {
				t.Fatalf("reopen failed: %v", err)
			}
			defer func() { _ = l2.Close() }()
			if !l2.Gate().IsAuthenticated() {
				t.Errorf("session flag lost across reopen")
			}
			after, err := l2.Links().List(KindGames)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if !sameLinks(before, after) {
				t.Errorf("reopened = %+v, want %+v", after, before)
			}
		})
	}
}

func TestOpenFileLayout(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(WithDataDir(dir), WithNamespace("ns"), WithoutCompression())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = l.Close() }()
	if _, err := l.Links().Add(KindApps, "Notes", "https://notes", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "ns", "keys", "incognitobox_apps"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	links, err := decodeLinks(string(data))
	if err != nil || len(links) != 1 || links[0].Title != "Notes" {
		t.Errorf("persisted file = %s (%v)", data, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(WithDriver("postgres")); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Open error = %v, want ErrUnknownDriver", err)
	}
}

func TestOpenBadCompressionLevel(t *testing.T) {
	if _, err := Open(WithDataDir(t.TempDir()), WithCompression("ultra")); err == nil {
		t.Errorf("expected error for unknown compression level")
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	l, err := Open(WithDriver(DriverMemory))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := l.Links().Add(KindGames, "Chess", "https://x", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	opts := []Option{WithDataDir(dir), WithIDGenerator(counterIDs())}

	l, err := Open(opts...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := l.Links().Add(KindGames, "Chess", "https://chess", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := l.Links().Add(KindApps, "Notes", "https://notes", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	l2, err := Open(append(opts, WithSeed("music", Link{Title: "Radio", URL: "https://radio"}))...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = l2.Close() }()
	if err := l2.Preload(context.Background(), KindGames, KindApps, "music"); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	for kind, title := range map[string]string{KindGames: "Chess", KindApps: "Notes", "music": "Radio"} {
		links, err := l2.Links().List(kind)
		if err != nil || len(links) != 1 || links[0].Title != title {
			t.Errorf("List(%s) = %+v, %v", kind, links, err)
		}
	}

	if err := l2.Preload(context.Background(), ""); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Preload(blank) error = %v, want ErrInvalidKind", err)
	}
}

type closeErrStorage struct {
	Storage
}

var errClose = errors.New("close failed")

func (closeErrStorage) Close() error { return errClose }

func TestCloseReportsStorageError(t *testing.T) {
	l, err := Open(WithStorage(closeErrStorage{NewMemoryStorage()}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := l.Close(); !errors.Is(err, errClose) {
		t.Errorf("Close error = %v, want errClose", err)
	}
}

func TestFileDriverKeepsSimilarKindsApart(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(WithDataDir(dir), WithIDGenerator(counterIDs()), WithConcurrency(2))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = l.Close() }()

	if err := l.Preload(context.Background(), "a/b", "a_b"); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if _, err := l.Links().Add("a/b", "Chess", "https://x", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	for _, kind := range []string{"a_b", "a:b", `a\b`} {
		l.Links().Reload(kind)
		links, err := l.Links().List(kind)
		if err != nil {
			t.Fatalf("List(%q) failed: %v", kind, err)
		}
		if len(links) != 0 {
			t.Errorf("kind %q sees links of a/b: %+v", kind, links)
		}
	}

	l.Links().Reload("a/b")
	if n, _ := l.Links().Len("a/b"); n != 1 {
		t.Errorf("Len(a/b) = %d, want 1", n)
	}
}
