package services

import (
	"encoding/xml"
	"time"
)

const (
	itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	atomNS   = "http://www.w3.org/2005/Atom"
)

type rssDocument struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ITunesNS string     `xml:"xmlns:itunes,attr"`
	AtomNS   string     `xml:"xmlns:atom,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string          `xml:"title"`
	Link           string          `xml:"link"`
	AtomLink       atomLink        `xml:"atom:link"`
	Description    string          `xml:"description"`
	Language       string          `xml:"language"`
	Copyright      string          `xml:"copyright,omitempty"`
	LastBuildDate  string          `xml:"lastBuildDate"`
	Image          *rssImage       `xml:"image,omitempty"`
	ITunesAuthor   string          `xml:"itunes:author,omitempty"`
	ITunesSummary  string          `xml:"itunes:summary,omitempty"`
	ITunesExplicit string          `xml:"itunes:explicit"`
	ITunesType     string          `xml:"itunes:type"`
	ITunesImage    *itunesImage    `xml:"itunes:image,omitempty"`
	ITunesOwner    *itunesOwner    `xml:"itunes:owner,omitempty"`
	ITunesCategory *itunesCategory `xml:"itunes:category,omitempty"`
	Items          []rssItem       `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itunesOwner struct {
	Name  string `xml:"itunes:name"`
	Email string `xml:"itunes:email,omitempty"`
}

type itunesCategory struct {
	Text string `xml:"text,attr"`
}

type rssItem struct {
	Title             string       `xml:"title"`
	Link              string       `xml:"link"`
	GUID              rssGUID      `xml:"guid"`
	Description       string       `xml:"description"`
	PubDate           string       `xml:"pubDate"`
	Enclosure         rssEnclosure `xml:"enclosure"`
	ITunesSummary     string       `xml:"itunes:summary,omitempty"`
	ITunesEpisode     int          `xml:"itunes:episode"`
	ITunesSeason      int          `xml:"itunes:season"`
	ITunesEpisodeType string       `xml:"itunes:episodeType"`
	ITunesImage       *itunesImage `xml:"itunes:image,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// encodeRSS renders a full XML document with a 2-space indent. Text is escaped
// here and only here.
func encodeRSS(ch rssChannel) ([]byte, error) {
	doc := rssDocument{
		Version:  "2.0",
		ITunesNS: itunesNS,
		AtomNS:   atomNS,
		Channel:  ch,
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func rssDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
