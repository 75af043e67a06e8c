package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/ziadkadry99/neuromind/internal/apperr"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>Hi</title></head><body><p>Hello</p></body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(nil, Options{Timeout: 5 * time.Second, UserAgent: "test-agent"})
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotUA)
	}
	if !strings.Contains(page.HTML, "<p>Hello</p>") {
		t.Errorf("unexpected body %q", page.HTML)
	}
	if !page.IsHTML() {
		t.Error("page should be HTML")
	}
	if page.FinalURL != srv.URL {
		t.Errorf("FinalURL = %q, want %q", page.FinalURL, srv.URL)
	}
}

func TestHTTPFetcherStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(nil, Options{}).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.Fetch {
		t.Fatalf("expected fetch error, got %T %v", err, err)
	}
	if err.Error() != "Failed to scrape website. Status code: 404" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(nil, Options{}).Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !strings.HasPrefix(err.Error(), "Error scraping website: ") {
		t.Errorf("message = %q", err.Error())
	}
	if !apperr.Is(err, apperr.Fetch) {
		t.Error("expected fetch kind")
	}
}

func TestHTTPFetcherDenied(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	f := NewHTTPFetcher(nil, Options{Policy: Policy{Deny: []string{"127.0.0.1/**"}}})
	_, err := f.Fetch(context.Background(), srv.URL+"/page")
	if !apperr.Is(err, apperr.Fetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if called {
		t.Error("denied URL reached the server")
	}
}

func TestHTTPFetcherCharsetAndLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1.
		w.Write([]byte("<p>caf\xe9</p>" + strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(nil, Options{MaxBytes: 12})
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(page.HTML, "café") {
		t.Errorf("charset not decoded: %q", page.HTML)
	}
	if strings.Contains(page.HTML, "xxxx") {
		t.Errorf("body not limited: %q", page.HTML)
	}
}

func TestNewBrowserFetcherDefaults(t *testing.T) {
	b := NewBrowserFetcher(Options{}, "")
	if b.opts.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", b.opts.Timeout)
	}
	_, err := b.Fetch(context.Background(), "not a url")
	if !apperr.Is(err, apperr.Fetch) {
		t.Errorf("expected fetch error before launching Chrome, got %v", err)
	}
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name   string
		resp   *network.Response
		status int
	}{
		{"no response", nil, 0},
		{"ok", &network.Response{Status: 200}, 0},
		{"not found", &network.Response{Status: 404}, 404},
		{"forbidden", &network.Response{Status: 403}, 403},
		{"server error", &network.Response{Status: 500}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkResponse("https://example.com", tt.resp)
			if tt.status == 0 {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			var ae *apperr.Error
			if !errors.As(err, &ae) || ae.Kind != apperr.Fetch || ae.Status != tt.status {
				t.Fatalf("got %v, want fetch status %d", err, tt.status)
			}
			if !strings.HasPrefix(err.Error(), "Failed to scrape website. Status code: ") {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}

func TestLimitHTML(t *testing.T) {
	tests := []struct {
		in   string
		max  int64
		want string
	}{
		{"<p>hello</p>", 0, "<p>hello</p>"},
		{"<p>hello</p>", 100, "<p>hello</p>"},
		{"<p>hello</p>", 5, "<p>he"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
	}
	for _, tt := range tests {
		if got := limitHTML(tt.in, tt.max); got != tt.want {
			t.Errorf("limitHTML(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
