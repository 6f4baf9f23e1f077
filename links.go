package locker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aweris/locker/internal/store"
)

// Opener launches a link URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Links holds the ordered link lists, one per kind. Each kind is loaded on
// first access and its whole list is rewritten to storage after every
// mutation.
type Links struct {
	mu       sync.Mutex
	storage  Storage
	prefix   string
	reserved string // key owned by the session gate
	seeds    map[string][]Link
	loaded   map[string][]Link
	clock    func() time.Time
	newID    func() string
	opener   Opener
	logger   *slog.Logger
}

// Key returns the storage key for kind.
func (l *Links) Key(kind string) string {
	return l.prefix + "_" + kind
}

// List returns the links of kind in insertion order.
func (l *Links) List(kind string) ([]Link, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return nil, err
	}
	return slices.Clone(links), nil
}

// Len returns the number of links of kind.
func (l *Links) Len(kind string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return 0, err
	}
	return len(links), nil
}

// Get returns the link with id.
func (l *Links) Get(kind, id string) (Link, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return Link{}, false, err
	}
	if i := indexOf(links, id); i >= 0 {
		return links[i], true, nil
	}
	return Link{}, false, nil
}

// Add appends a new link and persists the kind. title and url are required
// and stored as given; an empty category becomes DefaultCategory.
func (l *Links) Add(kind, title, url, category string) (Link, error) {
	if title == "" {
		return Link{}, &ValidationError{Field: "title"}
	}
	if url == "" {
		return Link{}, &ValidationError{Field: "url"}
	}
	if category == "" {
		category = DefaultCategory
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return Link{}, err
	}

	link := Link{
		ID:       l.uniqueID(links, l.newID()),
		Title:    title,
		URL:      url,
		Category: category,
		AddedAt:  l.now(),
	}
	updated := append(slices.Clip(links), link)
	if err := l.persist(kind, updated); err != nil {
		return Link{}, err
	}
	l.loaded[kind] = updated
	l.logger.Debug("Link added", "kind", kind, "id", link.ID, "title", link.Title)
	return link, nil
}

// Remove deletes the link with id. It reports false, without writing, when
// no such link exists.
func (l *Links) Remove(kind, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return false, err
	}
	i := indexOf(links, id)
	if i < 0 {
		return false, nil
	}

	updated := slices.Delete(slices.Clone(links), i, i+1)
	if err := l.persist(kind, updated); err != nil {
		return false, err
	}
	l.loaded[kind] = updated
	l.logger.Debug("Link removed", "kind", kind, "id", id)
	return true, nil
}

// Search returns links whose title or category contains term, ignoring case.
// An empty term matches everything.
func (l *Links) Search(kind, term string) ([]Link, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return slices.Clone(links), nil
	}

	needle := strings.ToLower(term)
	var out []Link
	for _, link := range links {
		if strings.Contains(strings.ToLower(link.Title), needle) ||
			strings.Contains(strings.ToLower(link.Category), needle) {
			out = append(out, link)
		}
	}
	return out, nil
}

// CategoryCounts returns each distinct category with its link count, in order
// of first occurrence.
func (l *Links) CategoryCounts(kind string) ([]CategoryCount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	links, err := l.load(kind)
	if err != nil {
		return nil, err
	}

	var out []CategoryCount
	pos := make(map[string]int)
	for _, link := range links {
		if i, ok := pos[link.Category]; ok {
			out[i].Count++
			continue
		}
		pos[link.Category] = len(out)
		out = append(out, CategoryCount{Category: link.Category, Count: 1})
	}
	return out, nil
}

// Open hands the link's URL to the opener.
func (l *Links) Open(kind, id string) error {
	link, ok, err := l.Get(kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	if err := l.opener.Open(link.URL); err != nil {
		return fmt.Errorf("open %s: %w", link.URL, err)
	}
	return nil
}

// Reload forgets the in-memory copy of kind; the next access reads storage again.
func (l *Links) Reload(kind string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.loaded, kind)
}

// preload reads every kind not yet in memory with a single batched storage read.
func (l *Links) preload(ctx context.Context, kinds []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var keys []string
	for _, kind := range kinds {
		if err := l.validKind(kind); err != nil {
			return err
		}
		if _, ok := l.loaded[kind]; !ok {
			keys = append(keys, l.Key(kind))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	blobs, err := store.GetMulti(ctx, l.storage, keys)
	if err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	for _, kind := range kinds {
		if _, ok := l.loaded[kind]; ok {
			continue
		}
		blob, ok := blobs[l.Key(kind)]
		if err := l.install(kind, blob, ok); err != nil {
			return err
		}
	}
	return nil
}

// load returns the in-memory list for kind, reading storage on first access.
// Callers hold l.mu.
func (l *Links) load(kind string) ([]Link, error) {
	if err := l.validKind(kind); err != nil {
		return nil, err
	}
	if links, ok := l.loaded[kind]; ok {
		return links, nil
	}

	blob, ok, err := l.storage.Get(l.Key(kind))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if err := l.install(kind, blob, ok); err != nil {
		return nil, err
	}
	return l.loaded[kind], nil
}

// install decodes a persisted blob into memory. A missing or malformed blob
// is replaced by the kind's seed, which is persisted right away.
func (l *Links) install(kind, blob string, ok bool) error {
	if ok {
		links, err := decodeLinks(blob)
		if err == nil {
			l.loaded[kind] = links
			return nil
		}
		l.logger.Warn("Discarding malformed links", "kind", kind, "err", err)
	}

	links := l.seed(kind)
	if err := l.persist(kind, links); err != nil {
		return err
	}
	l.loaded[kind] = links
	return nil
}

// seed materializes the configured seed for kind, filling in what the caller
// left blank.
func (l *Links) seed(kind string) []Link {
	links := make([]Link, 0, len(l.seeds[kind]))
	for _, s := range l.seeds[kind] {
		if s.Title == "" || s.URL == "" {
			l.logger.Warn("Skipping incomplete seed link", "kind", kind, "title", s.Title, "url", s.URL)
			continue
		}
		id := s.ID
		if id == "" {
			id = l.newID()
		}
		s.ID = l.uniqueID(links, id)
		if s.Category == "" {
			s.Category = DefaultCategory
		}
		if s.AddedAt.IsZero() {
			s.AddedAt = l.now()
		}
		links = append(links, s)
	}
	return links
}

func (l *Links) persist(kind string, links []Link) error {
	blob, err := encodeLinks(links)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := l.storage.Set(l.Key(kind), blob); err != nil {
		return fmt.Errorf("persist %s: %w", kind, err)
	}
	return nil
}

func (l *Links) now() time.Time {
	return l.clock().UTC().Truncate(time.Millisecond)
}

// uniqueID returns id, suffixed with -1, -2, ... until no link in links uses it.
func (l *Links) uniqueID(links []Link, id string) string {
	candidate := id
	for n := 1; indexOf(links, candidate) >= 0; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

func indexOf(links []Link, id string) int {
	return slices.IndexFunc(links, func(link Link) bool { return link.ID == id })
}

func (l *Links) validKind(kind string) error {
	if strings.TrimSpace(kind) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidKind)
	}
	if l.reserved != "" && l.Key(kind) == l.reserved {
		return fmt.Errorf("%w: %q collides with %s", ErrInvalidKind, kind, l.reserved)
	}
	return nil
}
