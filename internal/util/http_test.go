package util

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDoWithRetryEventualSuccess(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	resp, err := DoWithRetry(srv.Client(), req, 3, time.Millisecond, nil)
	if err != nil {
		t.Fatalf("DoWithRetry: %v", err)
	}
	defer resp.Body.Close()

	if hits != 3 {
		t.Errorf("server hits = %d, want 3", hits)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestDoWithRetryExhaustsBudget(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	_, err := DoWithRetry(srv.Client(), req, 3, time.Millisecond, nil)
	if err == nil {
		t.Fatal("DoWithRetry succeeded, want error")
	}

	if hits != 3 {
		t.Errorf("server hits = %d, want 3", hits)
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("err = %v, want HTTP 500", err)
	}
}

func TestClientSetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client, err := NewHTTPClient(HTTPClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent/1.0",
		Transport: http.DefaultTransport,
	})
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()

	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent/1.0")
	}
}

func TestPickUserAgent(t *testing.T) {
	if got := PickUserAgent("custom"); got != "custom" {
		t.Errorf("override ignored: %q", got)
	}
	if got := PickUserAgent(""); !strings.Contains(got, "Mozilla/5.0") {
		t.Errorf("default UA = %q, want browser-like", got)
	}
}

func TestHuman(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 << 20, "3.00 MB"},
	}

	for _, tt := range tests {
		if got := Human(tt.n); got != tt.want {
			t.Errorf("Human(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
