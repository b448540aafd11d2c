package feed

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

// The Python-style declaration the published feed has always carried.
// Readers don't care about the quote style, so keep it stable.
const xmlDeclaration = "<?xml version='1.0' encoding='utf-8'?>\n"

const rfc822Layout = "Mon, 02 Jan 2006 15:04:05 +0000"

// ChannelMeta holds the fixed <channel> metadata of the generated feed.
type ChannelMeta struct {
	Title       string
	Link        string
	Description string
	Language    string
	SelfURL     string
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description cdata         `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

// Descriptions may contain inline <img> markup, so they go out as CDATA.
type cdata struct {
	Text string `xml:",cdata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length string `xml:"length,attr"`
}

// Serializer renders article lists as RSS 2.0 documents.
type Serializer struct {
	meta ChannelMeta
	now  func() time.Time
}

func NewSerializer(meta ChannelMeta) *Serializer {
	return &Serializer{meta: meta, now: time.Now}
}

// Render produces the full indented RSS document, UTF-8 with declaration.
// An empty article list is a caller bug and is rejected.
func (s *Serializer) Render(articles []Article) ([]byte, error) {
	if len(articles) == 0 {
		return nil, fmt.Errorf("rss: refusing to render empty article list")
	}

	doc := rssDoc{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         s.meta.Title,
			Link:          s.meta.Link,
			Description:   s.meta.Description,
			Language:      s.meta.Language,
			LastBuildDate: formatRFC822(s.now()),
			AtomLink: atomLink{
				Href: s.meta.SelfURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
		},
	}

	for _, a := range articles {
		it := rssItem{
			Title:       a.Title,
			Link:        a.Link,
			Description: cdata{Text: a.Description},
			PubDate:     formatRFC822(a.PubDate),
			GUID:        a.GUID,
		}

		if a.Image != nil {
			it.Enclosure = &rssEnclosure{
				URL:    a.Image.Src,
				Type:   DefaultMIMEType,
				Length: "0",
			}
		}

		doc.Channel.Items = append(doc.Channel.Items, it)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rss: marshal: %w", err)
	}

	out := make([]byte, 0, len(xmlDeclaration)+len(body)+1)
	out = append(out, xmlDeclaration...)
	out = append(out, body...)
	out = append(out, '\n')

	return out, nil
}

// WriteFile renders the feed and writes it to path. Write failures are
// fatal to the run and propagate.
func (s *Serializer) WriteFile(path string, articles []Article) (int, error) {
	data, err := s.Render(articles)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("rss: write %s: %w", path, err)
	}

	return len(data), nil
}

func formatRFC822(t time.Time) string {
	return t.UTC().Format(rfc822Layout)
}
