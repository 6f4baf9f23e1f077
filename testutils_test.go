package locker

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var epoch = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

// stepClock advances one second per call.
func stepClock() func() time.Time {
	t := epoch
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

type recordingOpener struct {
	urls []string
	err  error
}

func (r *recordingOpener) Open(url string) error {
	r.urls = append(r.urls, url)
	return r.err
}

// flakyStorage wraps a Storage and fails writes on demand.
type flakyStorage struct {
	Storage
	failSet bool
	sets    int
}

var errDiskFull = errors.New("disk full")

func (f *flakyStorage) Set(key, value string) error {
	if f.failSet {
		return errDiskFull
	}
	f.sets++
	return f.Storage.Set(key, value)
}

func newTestLocker(t *testing.T, s Storage, opts ...Option) *Locker {
	t.Helper()
	base := []Option{
		WithStorage(s),
		WithClock(stepClock()),
		WithIDGenerator(counterIDs()),
		WithOpener(&recordingOpener{}),
	}
	l, err := Open(append(base, opts...)...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return l
}

func sameLinks(a, b []Link) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].URL != b[i].URL ||
			a[i].Category != b[i].Category || !a[i].AddedAt.Equal(b[i].AddedAt) {
			return false
		}
	}
	return true
}
