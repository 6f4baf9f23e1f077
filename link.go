package locker

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultCategory is assigned when a link is added without a category.
const DefaultCategory = "Uncategorized"

// Well-known kinds.
const (
	KindGames = "games"
	KindApps  = "apps"
)

// timeLayout is ISO-8601 in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Link is one stored entry. Links are never modified after creation.
type Link struct {
	ID       string
	Title    string
	URL      string
	Category string
	AddedAt  time.Time
}

// CategoryCount pairs a category with the number of links carrying it.
type CategoryCount struct {
	Category string
	Count    int
}

type linkJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	AddedAt  string `json:"addedAt"`
}

func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(linkJSON{
		ID:       l.ID,
		Title:    l.Title,
		URL:      l.URL,
		Category: l.Category,
		AddedAt:  l.AddedAt.UTC().Format(timeLayout),
	})
}

func (l *Link) UnmarshalJSON(data []byte) error {
	var raw linkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var addedAt time.Time
	if raw.AddedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.AddedAt)
		if err != nil {
			return fmt.Errorf("parse addedAt: %w", err)
		}
		addedAt = t.UTC()
	}
	*l = Link{
		ID:       raw.ID,
		Title:    raw.Title,
		URL:      raw.URL,
		Category: raw.Category,
		AddedAt:  addedAt,
	}
	return nil
}

func encodeLinks(links []Link) (string, error) {
	if links == nil {
		links = []Link{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeLinks(blob string) ([]Link, error) {
	var links []Link
	if err := json.Unmarshal([]byte(blob), &links); err != nil {
		return nil, err
	}
	if links == nil {
		links = []Link{}
	}
	return links, nil
}
