package services

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// checkFeed parses a rendered document the way a podcast client would and
// confirms it carries the expected items, each with an audio enclosure.
func checkFeed(body []byte, wantItems int) error {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse rendered feed: %w", err)
	}
	if feed.FeedType != "rss" {
		return fmt.Errorf("rendered feed has type %q", feed.FeedType)
	}
	if len(feed.Items) != wantItems {
		return fmt.Errorf("rendered feed has %d items, want %d", len(feed.Items), wantItems)
	}
	for i, item := range feed.Items {
		if len(item.Enclosures) == 0 || item.Enclosures[0].URL == "" {
			return fmt.Errorf("item %d (%q) has no enclosure", i, item.Title)
		}
	}
	return nil
}
