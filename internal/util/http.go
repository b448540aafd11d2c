package util

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
)

type HTTPClientOptions struct {
	Timeout     time.Duration
	UserAgent   string
	Transport   http.RoundTripper
	DebugLogger interface {
		Debugf(string, ...any)
	}
}

// NewHTTPClient builds the client used for all page fetches. The base
// transport is wrapped with the cloudflare bypass headers first, then
// with our own round tripper so the configured User-Agent always wins.
func NewHTTPClient(opts HTTPClientOptions) (*http.Client, error) {
	jar, _ := cookiejar.New(nil)

	var baseTransport http.RoundTripper
	if opts.Transport != nil {
		baseTransport = opts.Transport
	} else {
		baseTransport = cloudflarebp.AddCloudFlareByPass(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			ForceAttemptHTTP2:   true,
		})
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: roundTripper{
			base: baseTransport,
			ua:   opts.UserAgent,
			log:  opts.DebugLogger,
		},
		Jar: jar,
	}

	if opts.DebugLogger != nil {
		opts.DebugLogger.Debugf("HTTP client initialized (timeout=%s, ua=%q)\n",
			opts.Timeout, opts.UserAgent)
	}

	return client, nil
}

type roundTripper struct {
	base http.RoundTripper
	ua   string
	log  interface{ Debugf(string, ...any) }
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.ua != "" {
		req.Header.Set("User-Agent", rt.ua)
	}

	if rt.log != nil {
		rt.log.Debugf("HTTP %s %s\n", req.Method, req.URL.String())
	}

	return rt.base.RoundTrip(req)
}

// RetryLogger receives per-attempt failure reports. May be nil.
type RetryLogger interface {
	Errorf(string, ...any)
}

// DoWithRetry executes req up to attempts times. A non-2xx status counts
// as a failure. The delay before retry i+1 is base<<i, so with a 1s base
// the waits run 1s, 2s, 4s. The last error (or status) is returned after
// the budget is spent.
func DoWithRetry(c *http.Client, req *http.Request, attempts int, base time.Duration, log RetryLogger) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		resp, err = c.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if err == nil {
			err = fmt.Errorf("HTTP %d", resp.StatusCode)
			if resp.Body != nil {
				_ = resp.Body.Close()
			}
		}

		if log != nil {
			log.Errorf("attempt %d failed for %s: %v\n", attempt+1, req.URL, err)
		}

		if attempt < attempts-1 {
			time.Sleep(base << attempt)
		}
	}

	return nil, err
}

func PickUserAgent(override string) string {
	if override != "" {
		return override
	}

	return "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
}
