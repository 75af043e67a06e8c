// Package apperr defines the user-facing failure kinds of the mapping
// pipeline.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// Fetch covers non-success HTTP statuses and transport failures while
	// downloading a page.
	Fetch Kind = "fetch"
	// LLM covers failures of the summary or diagram generation service.
	LLM Kind = "llm"
	// Config covers missing credentials and invalid settings.
	Config Kind = "config"
)

// Error is a classified pipeline failure. Its message keeps the
// "Error ..." / "Failed ..." prefixes that downstream consumers test for.
type Error struct {
	Kind Kind
	// Artifact names what was being generated for LLM errors
	// ("summary", "mindmap", ...).
	Artifact string
	// Status is the HTTP status code for fetch errors that got a response.
	Status int
	// URL is the page being fetched, when known.
	URL string
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Fetch:
		if e.Status != 0 {
			return fmt.Sprintf("Failed to scrape website. Status code: %d", e.Status)
		}
		return fmt.Sprintf("Error scraping website: %v", e.Err)
	case LLM:
		return fmt.Sprintf("Error generating %s: %v", e.Artifact, e.Err)
	case Config:
		return fmt.Sprintf("Configuration error: %v", e.Err)
	}
	return fmt.Sprintf("Error: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Hints returns remediation suggestions for the user.
func (e *Error) Hints() []string {
	switch e.Kind {
	case Fetch:
		hints := []string{
			"Check if the URL is correct",
			"Make sure the website is accessible",
			"Some websites block automated access",
		}
		if e.Status == 403 || e.Status == 429 {
			hints = append(hints, "Try enabling fetch.browser to render the page in headless Chrome")
		}
		return hints
	case LLM:
		var sc interface{ StatusCode() int }
		if !errors.As(e.Err, &sc) {
			return nil
		}
		switch status := sc.StatusCode(); {
		case status == 401 || status == 403:
			return []string{"Check that the API key is valid and has access to the configured model"}
		case status == 404:
			return []string{"Check the model name in your config"}
		case status == 429:
			return []string{"The model provider is rate limiting requests", "Lower requests_per_minute or try again shortly"}
		case status >= 500:
			return []string{"The model provider is having trouble; try again shortly"}
		}
	case Config:
		return []string{"Set the API key in your environment or in a .env file"}
	}
	return nil
}

// NewFetchStatus reports a non-success HTTP status.
func NewFetchStatus(url string, status int) *Error {
	return &Error{Kind: Fetch, URL: url, Status: status, Err: fmt.Errorf("status %d", status)}
}

// NewFetch reports a transport or parsing failure while fetching url.
func NewFetch(url string, err error) *Error {
	return &Error{Kind: Fetch, URL: url, Err: err}
}

// NewLLM reports a generation failure for the named artifact.
func NewLLM(artifact string, err error) *Error {
	return &Error{Kind: LLM, Artifact: artifact, Err: err}
}

// NewConfig reports a configuration problem.
func NewConfig(format string, args ...any) *Error {
	return &Error{Kind: Config, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries a classified failure of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// HasFailurePrefix reports whether a plain-text result looks like a failure
// message. It exists for consumers that only see strings.
func HasFailurePrefix(s string) bool {
	return strings.HasPrefix(s, "Error") || strings.HasPrefix(s, "Failed")
}
