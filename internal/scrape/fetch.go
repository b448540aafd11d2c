package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hallvardm/blogrss/internal/ui"
	"github.com/hallvardm/blogrss/internal/util"
)

const defaultRetries = 3

// Fetcher performs GETs with a bounded retry budget and exponential
// backoff. The backoff base is a field so tests can shrink it.
type Fetcher struct {
	client  *http.Client
	retries int
	backoff time.Duration
	log     *ui.Logger
}

func NewFetcher(client *http.Client, retries int, log *ui.Logger) *Fetcher {
	if retries <= 0 {
		retries = defaultRetries
	}

	return &Fetcher{
		client:  client,
		retries: retries,
		backoff: time.Second,
		log:     log,
	}
}

// SetBackoff overrides the base retry delay.
func (f *Fetcher) SetBackoff(d time.Duration) {
	f.backoff = d
}

// Fetch returns the raw body of target, or the last error once every
// retry attempt has failed.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	resp, err := f.get(ctx, target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", target, err)
	}

	return data, nil
}

// FetchDOM fetches target and parses the body into a goquery document.
func (f *Fetcher) FetchDOM(ctx context.Context, target string) (*goquery.Document, error) {
	resp, err := f.get(ctx, target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: parse html: %w", target, err)
	}

	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	resp, err := util.DoWithRetry(f.client, req, f.retries, f.backoff, f.log)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	return resp, nil
}
