package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"podhub/internal/models"
	"podhub/internal/utils"
)

// EpisodeSource loads the published episodes a feed is built from.
type EpisodeSource interface {
	PublishedEpisodes(ctx context.Context) ([]models.Post, error)
}

// FeedOptions describe the channel shared by all variants.
type FeedOptions struct {
	Title         string
	Link          string
	Description   string
	Image         string
	Author        string
	Email         string
	Limit         int    // item cap for VariantPublicLimited
	AdFreeBaseURL string // where ad-free media lives, without trailing slash
}

// FeedBuilder renders the three feed variants and publishes them to a FeedStore.
type FeedBuilder struct {
	source EpisodeSource
	store  FeedStore
	opts   FeedOptions
	log    *zap.Logger
	now    func() time.Time

	mu sync.Mutex // one build at a time
}

func NewFeedBuilder(source EpisodeSource, store FeedStore, opts FeedOptions, log *zap.Logger) *FeedBuilder {
	if opts.Limit <= 0 {
		opts.Limit = 300
	}
	return &FeedBuilder{
		source: source,
		store:  store,
		opts:   opts,
		log:    log.Named("feed"),
		now:    time.Now,
	}
}

// Rebuild loads the episodes, renders every variant and publishes them. If loading
// or rendering fails nothing is published and the previous documents stay live.
func (b *FeedBuilder) Rebuild(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.now()
	posts, err := b.source.PublishedEpisodes(ctx)
	if err != nil {
		return fmt.Errorf("load published episodes: %w", err)
	}

	docs, err := b.Render(posts, start)
	if err != nil {
		return err
	}
	for _, v := range Variants {
		doc, err := b.store.Put(ctx, FeedDocument{Variant: v, XML: docs[v], BuiltAt: start})
		if err != nil {
			return err
		}
		b.log.Debug("feed published", zap.String("variant", string(v)), zap.Int64("version", doc.Version))
	}

	b.log.Info("feeds rebuilt",
		zap.Int("episodes", len(posts)),
		zap.Duration("took", b.now().Sub(start)),
	)
	return nil
}

// Render builds the XML of every variant from posts. Each document is parsed back
// before it is returned so a malformed feed is never published.
func (b *FeedBuilder) Render(posts []models.Post, builtAt time.Time) (map[Variant][]byte, error) {
	episodes := BuildEpisodes(posts, b.opts)

	limited := episodes
	if len(limited) > b.opts.Limit {
		limited = limited[:b.opts.Limit]
	}

	out := make(map[Variant][]byte, len(Variants))
	for v, items := range map[Variant][]rssItem{
		VariantPublicAll:     b.items(episodes, false),
		VariantPublicLimited: b.items(limited, false),
		VariantPrivate:       b.items(episodes, true),
	} {
		ch := b.channel(v, builtAt)
		ch.Items = items
		body, err := encodeRSS(ch)
		if err != nil {
			return nil, fmt.Errorf("encode %s feed: %w", v, err)
		}
		if err := checkFeed(body, len(items)); err != nil {
			return nil, fmt.Errorf("%s feed: %w", v, err)
		}
		out[v] = body
	}
	return out, nil
}

// Episode is one feed entry after ordering, numbering and text clean-up.
type Episode struct {
	Post        models.Post
	Number      int
	Season      int
	Description string
	MediaURL    string
	AdFreeURL   string
}

// BuildEpisodes sorts posts newest first, higher id first on equal dates, and
// numbers them so the oldest is episode 1. Season counts calendar years since the oldest post. Posts without
// audio keep their number but are left out of the result.
func BuildEpisodes(posts []models.Post, opts FeedOptions) []Episode {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].PublishedAt.Equal(sorted[j].PublishedAt) {
			return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) == 0 {
		return nil
	}

	firstYear := sorted[len(sorted)-1].PublishedAt.Year()
	out := make([]Episode, 0, len(sorted))
	for i, p := range sorted {
		if p.MP3URL == "" {
			continue
		}
		desc := p.Description
		if desc == "" {
			desc = utils.ExtractDescription(p.Excerpt)
		}
		out = append(out, Episode{
			Post:        p,
			Number:      len(sorted) - i,
			Season:      p.PublishedAt.Year() - firstYear,
			Description: desc,
			MediaURL:    p.MP3URL,
			AdFreeURL:   AdFreeURL(p, opts.AdFreeBaseURL),
		})
	}
	return out
}

var hostedMP3 = regexp.MustCompile(`/sedaily/([^/?#]+)\.mp3(?:[?#].*)?$`)

// AdFreeURL returns the advertisement-free media location for p. An explicit
// ad-free URL wins; otherwise hosted files are mapped by name and anything else
// is returned unchanged.
func AdFreeURL(p models.Post, base string) string {
	if p.AdFreeMP3URL != "" {
		return p.AdFreeMP3URL
	}
	m := hostedMP3.FindStringSubmatch(p.MP3URL)
	if m == nil || base == "" {
		return p.MP3URL
	}
	return base + "/" + m[1] + "_adfree.mp3"
}

func (b *FeedBuilder) items(episodes []Episode, adFree bool) []rssItem {
	items := make([]rssItem, 0, len(episodes))
	for _, e := range episodes {
		media := e.MediaURL
		if adFree {
			media = e.AdFreeURL
		}
		link := e.Post.Link
		if link == "" {
			link = b.opts.Link + "/episodes/" + strconv.FormatUint(uint64(e.Post.ID), 10)
		}
		item := rssItem{
			Title:             e.Post.Title,
			Link:              link,
			GUID:              rssGUID{IsPermaLink: "false", Value: "episode-" + strconv.FormatUint(uint64(e.Post.ID), 10)},
			Description:       e.Description,
			PubDate:           rssDate(e.Post.PublishedAt),
			Enclosure:         rssEnclosure{URL: media, Type: "audio/mpeg"},
			ITunesSummary:     e.Description,
			ITunesEpisode:     e.Number,
			ITunesSeason:      e.Season,
			ITunesEpisodeType: "full",
		}
		if e.Post.ImageURL != "" {
			item.ITunesImage = &itunesImage{Href: e.Post.ImageURL}
		}
		items = append(items, item)
	}
	return items
}

func (b *FeedBuilder) channel(v Variant, builtAt time.Time) rssChannel {
	title := b.opts.Title
	if v == VariantPrivate {
		title += " (Ad-Free)"
	}
	ch := rssChannel{
		Title:          title,
		Link:           b.opts.Link,
		AtomLink:       atomLink{Href: b.opts.Link + selfPath(v), Rel: "self", Type: "application/rss+xml"},
		Description:    b.opts.Description,
		Language:       "en-us",
		Copyright:      fmt.Sprintf("Copyright %d %s", builtAt.Year(), b.opts.Author),
		LastBuildDate:  rssDate(builtAt),
		ITunesAuthor:   b.opts.Author,
		ITunesSummary:  b.opts.Description,
		ITunesExplicit: "false",
		ITunesType:     "episodic",
		ITunesCategory: &itunesCategory{Text: "Technology"},
	}
	if b.opts.Image != "" {
		ch.Image = &rssImage{URL: b.opts.Image, Title: title, Link: b.opts.Link}
		ch.ITunesImage = &itunesImage{Href: b.opts.Image}
	}
	if b.opts.Author != "" {
		ch.ITunesOwner = &itunesOwner{Name: b.opts.Author, Email: b.opts.Email}
	}
	return ch
}

func selfPath(v Variant) string {
	switch v {
	case VariantPublicAll:
		return "/rss/public/all_unlimited"
	case VariantPrivate:
		return "/rss/private"
	default:
		return "/rss/public/all"
	}
}
