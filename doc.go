// Package locker provides a personal link locker: a credential gate in front
// of categorized lists of links, persisted in a local key-value store.
//
// Each kind ("games", "apps", ...) is an independent ordered list stored as a
// JSON array under its own key. The list is loaded on first use and rewritten
// in full after every mutation.
//
// Basic usage:
//
//	l, _ := locker.Open(locker.WithDataDir("~/.local/share/locker"))
//	defer l.Close()
//
//	// Gate
//	if !l.Gate().IsAuthenticated() {
//	    ok, _ := l.Gate().AttemptLogin("hitman", "18074478")
//	    ...
//	}
//
//	// Store links
//	link, err := l.Links().Add(locker.KindGames, "Chess", "https://x", "Board")
//	if errors.Is(err, locker.ErrValidation) { ... }
//
//	// Read side
//	all, _ := l.Links().List(locker.KindGames)
//	hits, _ := l.Links().Search(locker.KindGames, "board")
//	counts, _ := l.Links().CategoryCounts(locker.KindGames)
//
//	// Open in the browser, remove
//	_ = l.Links().Open(locker.KindGames, link.ID)
//	removed, _ := l.Links().Remove(locker.KindGames, link.ID)
//
// Storage drivers: "file" (default, one file per key, zstd), "bolt" (single
// bbolt database) and "memory".
package locker
