package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hallvardm/blogrss/internal/feed"
	"github.com/hallvardm/blogrss/internal/ui"
)

const defaultMaxArticles = 20

var (
	// Site-specific result containers, most specific first.
	containerSelectors = []string{
		".search-results__result-wrapper",
		".search-result__item",
		"[class*='search-result']",
		".post-preview",
	}

	// Generic fallbacks for when the markup shifts under us.
	genericContainerSelectors = []string{
		"article",
		".post",
		".blog-post",
		".entry",
		".article",
	}

	// Link discovery when no containers match at all. The first
	// selector that yields anything wins.
	linkSelectors = []string{
		`a[href*="/en/"]`,
		`a[href*="blog"]`,
		"h2 a, h3 a, h4 a",
		".title a",
	}

	skipURLPatterns = []string{
		"javascript:",
		"mailto:",
		"#",
		"/search",
		"/tag",
		"/category",
		"google.com/search",
	}
)

type ScraperOptions struct {
	Fetcher     *Fetcher
	BaseURL     string
	SearchURL   string
	Meta        feed.ChannelMeta
	MaxArticles int
	Logger      *ui.Logger
	Stats       *ui.Stats
	Progress    *ui.ProgressManager
}

// PageScraper runs the whole pipeline for one search page: fetch,
// container cascade, link fallback, article assembly. Its result is
// never empty; total failure yields a single error article so the feed
// still gets written.
type PageScraper struct {
	fetcher     *Fetcher
	extractor   *Extractor
	baseURL     string
	searchURL   string
	meta        feed.ChannelMeta
	maxArticles int
	log         *ui.Logger
	stats       *ui.Stats
	progress    *ui.ProgressManager
}

func NewPageScraper(opts ScraperOptions) *PageScraper {
	maxArticles := opts.MaxArticles
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}

	return &PageScraper{
		fetcher:     opts.Fetcher,
		extractor:   NewExtractor(opts.BaseURL, opts.SearchURL, opts.Logger),
		baseURL:     opts.BaseURL,
		searchURL:   opts.SearchURL,
		meta:        opts.Meta,
		maxArticles: maxArticles,
		log:         opts.Logger,
		stats:       opts.Stats,
		progress:    opts.Progress,
	}
}

// Scrape returns the ordered article list for the search page. The list
// always has at least one entry: a placeholder when nothing was
// discoverable, an error article when the run itself blew up.
func (p *PageScraper) Scrape(ctx context.Context) []feed.Article {
	articles, err := p.scrape(ctx)
	if err != nil {
		p.log.Errorf("scrape: %v\n", err)
		return []feed.Article{p.errorArticle(err)}
	}

	if len(articles) == 0 {
		return []feed.Article{p.placeholderArticle()}
	}

	return articles
}

func (p *PageScraper) scrape(ctx context.Context) (articles []feed.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	doc, err := p.fetcher.FetchDOM(ctx, p.searchURL)
	if err != nil {
		return nil, err
	}
	p.pageFetched()

	containers := findContainers(doc)
	if containers == nil {
		return p.scrapeFromLinks(ctx, doc), nil
	}

	processed := 0
	containers.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if processed >= p.maxArticles {
			return false
		}
		processed++

		if a := p.extractor.ExtractArticle(s); a != nil {
			articles = append(articles, *a)
		} else {
			p.log.Infof("skipping container %d: extraction failed\n", processed)
		}

		return true
	})

	return articles, nil
}

func findContainers(doc *goquery.Document) *goquery.Selection {
	for _, sel := range containerSelectors {
		if m := doc.Find(sel); m.Length() > 0 {
			return m
		}
	}

	for _, sel := range genericContainerSelectors {
		if m := doc.Find(sel); m.Length() > 0 {
			return m
		}
	}

	return nil
}

type linkCandidate struct {
	href string
	text string
}

// scrapeFromLinks is the no-containers path: discover candidate article
// links on the page and fetch each one individually.
func (p *PageScraper) scrapeFromLinks(ctx context.Context, doc *goquery.Document) []feed.Article {
	links := p.discoverLinks(doc)
	if len(links) == 0 {
		return nil
	}
	if len(links) > p.maxArticles {
		links = links[:p.maxArticles]
	}

	var bar *ui.PageBar
	if p.progress != nil {
		bar = p.progress.NewPageBar("articles", len(links))
		defer bar.Done()
	}

	var out []feed.Article
	for _, l := range links {
		target := resolveURL(p.baseURL, l.href)

		a, err := p.scrapeArticlePage(ctx, target, l.text)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			p.log.Errorf("article page %s: %v\n", target, err)
			continue
		}

		out = append(out, *a)
	}

	return out
}

func (p *PageScraper) discoverLinks(doc *goquery.Document) []linkCandidate {
	for _, sel := range linkSelectors {
		var links []linkCandidate
		seen := map[string]bool{}

		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || !isArticleURL(href) {
				return
			}

			u := resolveURL(p.baseURL, href)
			if seen[u] {
				return
			}
			seen[u] = true

			links = append(links, linkCandidate{href: href, text: a.Text()})
		})

		if len(links) > 0 {
			return links
		}
	}

	return nil
}

func isArticleURL(href string) bool {
	if href == "" {
		return false
	}

	lower := strings.ToLower(href)
	for _, pat := range skipURLPatterns {
		if strings.Contains(lower, pat) {
			return false
		}
	}

	return true
}

// scrapeArticlePage is the lighter extraction for an individual article
// page: page heading for the title, first paragraph of the first
// matching content block for the description.
func (p *PageScraper) scrapeArticlePage(ctx context.Context, target, fallbackTitle string) (*feed.Article, error) {
	doc, err := p.fetcher.FetchDOM(ctx, target)
	if err != nil {
		return nil, err
	}
	p.pageFetched()

	title := CleanText(fallbackTitle)
	for _, sel := range []string{"h1", "title"} {
		if m := doc.Find(sel).First(); m.Length() > 0 {
			if txt := CleanText(m.Text()); txt != "" {
				title = txt
				break
			}
		}
	}
	if title == "" {
		title = "No Title"
	}

	var desc string
	for _, sel := range []string{".content", ".post-content", ".entry-content", "article"} {
		block := doc.Find(sel).First()
		if block.Length() == 0 {
			continue
		}

		if ps := block.Find("p"); ps.Length() > 0 {
			desc = CleanText(ps.First().Text())
		} else {
			desc = feed.Truncate(CleanText(block.Text()), feed.MaxDescLen)
		}

		break
	}
	if desc == "" {
		desc = title
	}

	return &feed.Article{
		Title:       feed.Truncate(title, feed.MaxTitleLen),
		Link:        target,
		Description: feed.Truncate(desc, feed.MaxDescLen),
		PubDate:     dateFromSelection(doc.Selection),
		GUID:        target,
	}, nil
}

func (p *PageScraper) placeholderArticle() feed.Article {
	return feed.Article{
		Title:       p.meta.Title,
		Link:        p.searchURL,
		Description: p.meta.Description,
		PubDate:     time.Now().UTC(),
		GUID:        p.searchURL,
	}
}

func (p *PageScraper) errorArticle(err error) feed.Article {
	now := time.Now().UTC()

	return feed.Article{
		Title:       p.meta.Title + " - Error",
		Link:        p.searchURL,
		Description: "Error occurred while scraping: " + err.Error(),
		PubDate:     now,
		// Timestamp suffix keeps repeated failure entries unique.
		GUID: fmt.Sprintf("%s#error-%d", p.searchURL, now.Unix()),
	}
}

func (p *PageScraper) pageFetched() {
	if p.stats != nil {
		p.stats.PagesFetched.Add(1)
	}
}
