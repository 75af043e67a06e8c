// Package fetch downloads web pages and extracts their readable text.
package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalizeURL trims raw and ensures it carries an http(s) scheme. Empty
// input stays empty and input that already has a scheme is returned as is.
// Everything else, including bare "www." hosts, gets an https:// prefix.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// IsHTTPURL reports whether u starts with an http or https scheme.
func IsHTTPURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Policy blocks URLs whose "host/path" matches any deny glob.
type Policy struct {
	Deny []string
}

// Check returns an error when rawURL is malformed or denied.
func (p Policy) Check(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	target := strings.ToLower(u.Hostname()) + "/" + strings.TrimPrefix(u.EscapedPath(), "/")
	for _, pattern := range p.Deny {
		ok, err := doublestar.Match(strings.ToLower(pattern), target)
		if err != nil {
			return fmt.Errorf("invalid deny pattern %q: %w", pattern, err)
		}
		if ok {
			return fmt.Errorf("URL %s is blocked by deny pattern %q", rawURL, pattern)
		}
	}
	return nil
}
