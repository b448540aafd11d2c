package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hallvardm/blogrss/internal/feed"
	"github.com/hallvardm/blogrss/internal/ui"
)

// Summaries shorter than this are decorative fragments, not prose.
const minSummaryLen = 10

var (
	titleSelectors = []string{
		".search-result__title",
		"h1, h2, h3, h4",
		"a",
		".title",
	}

	summarySelectors = []string{
		".summary",
		".excerpt",
		".description",
		".snippet",
		"p",
	}

	imageSelectors = []string{
		"img.search-result__featured-image",
		".search-result__featured-image img",
		"img[class*='featured']",
	}

	dateSelectors = []string{
		".search-result__eyebrow",
		"[class*='eyebrow']",
		"time",
		".date",
		".published",
	}
)

// Extractor pulls one Article out of a listing container. Every field
// resolves through its own ordered fallback cascade, so a missing piece
// degrades to a default instead of sinking the whole article.
type Extractor struct {
	baseURL   string
	searchURL string
	log       *ui.Logger
}

func NewExtractor(baseURL, searchURL string, log *ui.Logger) *Extractor {
	return &Extractor{
		baseURL:   baseURL,
		searchURL: searchURL,
		log:       log,
	}
}

// ExtractArticle never propagates a failure: anything unexpected inside
// the cascade is logged and reported as nil so the caller skips the
// container.
func (e *Extractor) ExtractArticle(s *goquery.Selection) (a *feed.Article) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("extract article: %v\n", r)
			a = nil
		}
	}()

	titleSel := e.findTitle(s)
	title := "No Title"
	if titleSel != nil {
		title = CleanText(titleSel.Text())
	}

	link := e.findLink(s, titleSel)
	summary := e.findSummary(s, title)
	img := e.findImage(s)
	pub := dateFromSelection(s)

	desc := summary
	maxDesc := feed.MaxDescLen
	if img != nil {
		desc = fmt.Sprintf(`<img src=%q alt=%q style="max-width: 100%%;"><br>%s`,
			img.Src, img.Alt, summary)
		maxDesc = feed.MaxRichDescLen
	}

	return &feed.Article{
		Title:       feed.Truncate(title, feed.MaxTitleLen),
		Link:        link,
		Description: feed.Truncate(desc, maxDesc),
		PubDate:     pub,
		GUID:        link,
		Image:       img,
	}
}

func (e *Extractor) findTitle(s *goquery.Selection) *goquery.Selection {
	for _, sel := range titleSelectors {
		m := s.Find(sel).First()
		if m.Length() > 0 && CleanText(m.Text()) != "" {
			return m
		}
	}

	return nil
}

// findLink prefers a link on (or nested inside) the title element, then
// any link in the container, then the search page itself.
func (e *Extractor) findLink(s, titleSel *goquery.Selection) string {
	if titleSel != nil {
		if href, ok := titleSel.Attr("href"); ok && href != "" {
			return resolveURL(e.baseURL, href)
		}
		if href, ok := titleSel.Find("a[href]").First().Attr("href"); ok && href != "" {
			return resolveURL(e.baseURL, href)
		}
	}

	if href, ok := s.Find("a[href]").First().Attr("href"); ok && href != "" {
		return resolveURL(e.baseURL, href)
	}

	return e.searchURL
}

func (e *Extractor) findSummary(s *goquery.Selection, fallback string) string {
	if m := s.Find(".search-result__summary").First(); m.Length() > 0 {
		if txt := CleanText(m.Text()); txt != "" {
			return txt
		}
	}

	for _, sel := range summarySelectors {
		var found string
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			if txt := CleanText(m.Text()); len(txt) > minSummaryLen {
				found = txt
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	return fallback
}

func (e *Extractor) findImage(s *goquery.Selection) *feed.Image {
	for _, sel := range imageSelectors {
		m := s.Find(sel).First()
		if m.Length() == 0 {
			continue
		}

		src, ok := m.Attr("src")
		if !ok || src == "" {
			continue
		}

		alt, _ := m.Attr("alt")

		return &feed.Image{
			Src: resolveURL(e.baseURL, src),
			Alt: alt,
		}
	}

	return nil
}

// dateFromSelection walks the eyebrow/time/date cascade, preferring an
// element's datetime attribute over its text.
func dateFromSelection(s *goquery.Selection) time.Time {
	for _, sel := range dateSelectors {
		m := s.Find(sel).First()
		if m.Length() == 0 {
			continue
		}

		raw, ok := m.Attr("datetime")
		if !ok {
			raw = m.Text()
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}

		return ParseDate(raw)
	}

	return time.Now().UTC()
}

func resolveURL(baseURL, href string) string {
	if href == "" {
		return baseURL
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(baseURL)
	if err != nil {
		return href
	}

	return b.ResolveReference(u).String()
}
