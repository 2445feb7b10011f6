package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// DefaultLinkFetchTimeout bounds a metadata fetch. There is no retry.
const DefaultLinkFetchTimeout = 15 * time.Second

const maxPageBytes = 4 << 20

// LinkMeta is what a related link shows besides its URL.
type LinkMeta struct {
	Title string
	Image string
}

// LinkCrawler fetches page metadata for related links.
type LinkCrawler struct {
	client  *http.Client
	timeout time.Duration
}

func NewLinkCrawler(timeout time.Duration) *LinkCrawler {
	if timeout <= 0 {
		timeout = DefaultLinkFetchTimeout
	}
	return &LinkCrawler{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch downloads rawURL and reads its title and preview image. Open Graph tags
// win, then <title>, then the readability extraction. Any failure, including
// the timeout, is reported as ErrUpstream.
func (s *LinkCrawler) Fetch(ctx context.Context, rawURL string) (LinkMeta, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return LinkMeta{}, fmt.Errorf("%w: invalid url %q", ErrBadRequest, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return LinkMeta{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; podhub-linkbot/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return LinkMeta{}, fmt.Errorf("%w: fetch %s timed out after %s", ErrUpstream, pageURL.Host, s.timeout)
		}
		return LinkMeta{}, fmt.Errorf("%w: fetch %s: %v", ErrUpstream, pageURL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LinkMeta{}, fmt.Errorf("%w: fetch %s: status %d", ErrUpstream, pageURL.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return LinkMeta{}, fmt.Errorf("%w: read %s: %v", ErrUpstream, pageURL.Host, err)
	}

	meta := parseLinkMeta(body, pageURL)
	if meta.Title == "" {
		return LinkMeta{}, fmt.Errorf("%w: %s has no title", ErrUpstream, pageURL.Host)
	}
	return meta, nil
}

func parseLinkMeta(body []byte, pageURL *url.URL) LinkMeta {
	var meta LinkMeta
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		meta.Title = metaContent(doc, "og:title")
		if meta.Title == "" {
			meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
		meta.Image = metaContent(doc, "og:image")
	}

	if meta.Title == "" || meta.Image == "" {
		if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
			if meta.Title == "" {
				meta.Title = strings.TrimSpace(article.Title)
			}
			if meta.Image == "" {
				meta.Image = article.Image
			}
		}
	}

	if meta.Image != "" {
		if ref, err := url.Parse(meta.Image); err == nil {
			meta.Image = pageURL.ResolveReference(ref).String()
		}
	}
	return meta
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(`meta[property="` + property + `"]`)
	if sel.Length() == 0 {
		sel = doc.Find(`meta[name="` + property + `"]`)
	}
	v, _ := sel.First().Attr("content")
	return strings.TrimSpace(v)
}
