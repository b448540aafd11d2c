package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

var testMeta = ChannelMeta{
	Title:       "Example Dev Blog",
	Link:        "https://blog.example.com/en/search/",
	Description: "Latest updates from the example team",
	Language:    "en-us",
	SelfURL:     "https://example.github.io/blogrss/feed.xml",
}

func testArticles() []Article {
	return []Article{
		{
			Title:       "Plain article",
			Link:        "https://blog.example.com/en/plain",
			Description: "A plain text description.",
			PubDate:     time.Date(2025, time.January, 5, 12, 30, 0, 0, time.UTC),
			GUID:        "https://blog.example.com/en/plain",
		},
		{
			Title:       "Illustrated article",
			Link:        "https://blog.example.com/en/illustrated",
			Description: `<img src="https://blog.example.com/img/hero.png" alt="hero" style="max-width: 100%;"><br>An illustrated description.`,
			PubDate:     time.Date(2025, time.February, 6, 8, 0, 0, 0, time.UTC),
			GUID:        "https://blog.example.com/en/illustrated",
			Image: &Image{
				Src: "https://blog.example.com/img/hero.png",
				Alt: "hero",
			},
		},
	}
}

func TestRenderRoundTrip(t *testing.T) {
	articles := testArticles()

	data, err := NewSerializer(testMeta).Render(articles)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		t.Fatalf("generated feed does not parse: %v", err)
	}

	if parsed.Title != testMeta.Title {
		t.Errorf("channel title = %q", parsed.Title)
	}
	if len(parsed.Items) != len(articles) {
		t.Fatalf("got %d items, want %d", len(parsed.Items), len(articles))
	}

	for i, item := range parsed.Items {
		want := articles[i]

		if item.Title != want.Title {
			t.Errorf("item %d title = %q, want %q", i, item.Title, want.Title)
		}
		if item.Link != want.Link {
			t.Errorf("item %d link = %q, want %q", i, item.Link, want.Link)
		}
		if item.GUID != want.GUID {
			t.Errorf("item %d guid = %q, want %q", i, item.GUID, want.GUID)
		}
		if item.PublishedParsed == nil {
			t.Errorf("item %d pubDate did not parse", i)
		} else if !item.PublishedParsed.Equal(want.PubDate) {
			t.Errorf("item %d pubDate = %v, want %v", i, item.PublishedParsed, want.PubDate)
		}
	}
}

func TestRenderDocumentShape(t *testing.T) {
	data, err := NewSerializer(testMeta).Render(testArticles())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := string(data)

	if !strings.HasPrefix(out, "<?xml version='1.0' encoding='utf-8'?>\n") {
		t.Errorf("missing XML declaration, got prefix %q", out[:40])
	}
	if !strings.Contains(out, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`) {
		t.Error("missing rss root with atom namespace")
	}
	if !strings.Contains(out, `<atom:link href="`+testMeta.SelfURL+`" rel="self" type="application/rss+xml">`) {
		t.Error("missing self-referencing atom link")
	}
	if !strings.Contains(out, "<![CDATA[") {
		t.Error("description is not CDATA-wrapped")
	}
	if !strings.Contains(out, `<enclosure url="https://blog.example.com/img/hero.png" type="image/jpeg" length="0">`) {
		t.Error("missing enclosure for illustrated article")
	}
	if strings.Count(out, "<enclosure") != 1 {
		t.Errorf("enclosure count = %d, want 1", strings.Count(out, "<enclosure"))
	}
	if !strings.Contains(out, "<language>en-us</language>") {
		t.Error("missing language element")
	}
	if !strings.Contains(out, "<pubDate>Sun, 05 Jan 2025 12:30:00 +0000</pubDate>") {
		t.Error("pubDate not in RFC-822 form")
	}
}

func TestRenderEmptyListRejected(t *testing.T) {
	if _, err := NewSerializer(testMeta).Render(nil); err == nil {
		t.Error("Render(nil) succeeded, want error")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")

	n, err := NewSerializer(testMeta).WriteFile(path, testArticles())
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if len(data) != n {
		t.Errorf("reported %d bytes, file has %d", n, len(data))
	}
	if _, err := gofeed.NewParser().ParseString(string(data)); err != nil {
		t.Errorf("written feed does not parse: %v", err)
	}
}

func TestWriteFileBadPathFails(t *testing.T) {
	dir := t.TempDir()

	_, err := NewSerializer(testMeta).WriteFile(filepath.Join(dir, "missing", "feed.xml"), testArticles())
	if err == nil {
		t.Error("WriteFile to missing directory succeeded, want error")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short, 10) = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate(abcdef, 3) = %q", got)
	}
	// Rune-safe: multibyte characters are not split.
	if got := Truncate("ééééé", 3); got != "ééé" {
		t.Errorf("Truncate multibyte = %q", got)
	}
}
