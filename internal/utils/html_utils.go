package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// WordPress excerpts end with "... Download <title>" links
	downloadSpan = regexp.MustCompile(` Download ([^<]+)<`)
	firstSpan    = regexp.MustCompile(`>\s*([^<\s][^<]*)<`)
	stripPolicy  = bluemonday.StrictPolicy()
)

// ExtractDescription pulls a plain-text summary out of an HTML excerpt. It is a
// best-effort heuristic tuned to the episode excerpts the CMS produces.
func ExtractDescription(excerpt string) string {
	var text string
	if m := downloadSpan.FindStringSubmatch(excerpt); m != nil {
		text = m[1]
	} else if m := firstSpan.FindStringSubmatch(excerpt); m != nil {
		text = m[1]
	} else {
		text = stripPolicy.Sanitize(excerpt)
	}
	return strings.TrimSpace(DecodeEntities(text))
}

// DecodeEntities undoes the entity escaping found in CMS excerpts, including the
// stray "amp;" left behind by double-escaped ampersands. The result is plain text
// and must be escaped again before being embedded in markup.
func DecodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "amp;", "")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return html.UnescapeString(s)
}
