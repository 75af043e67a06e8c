// Package session holds the per-visitor state of the mapper: which page is
// shown, the selected diagram kind and the cached article text and summary
// for the last URL.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/neuromind/internal/mermaid"
)

// Page is the screen a session is looking at.
type Page string

const (
	PageMain    Page = "main"
	PageLibrary Page = "library"
)

// State is one visitor's session.
type State struct {
	ID              string
	CurrentPage     Page
	SelectedDiagram mermaid.Kind

	// LastURL is the normalized URL the cache below belongs to.
	LastURL       string
	CachedTitle   string
	CachedText    string
	CachedSummary string

	// LastDiagram is the most recent rendered diagram text and LastKind
	// its kind.
	LastDiagram string
	LastKind    mermaid.Kind
	LastError   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a fresh session on the main page with the mindmap selected.
func New() *State {
	now := time.Now().UTC()
	return &State{
		ID:              uuid.New().String(),
		CurrentPage:     PageMain,
		SelectedDiagram: mermaid.KindMindmap,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CachedFor reports whether text and summary are cached for url.
func (s *State) CachedFor(url string) bool {
	return url != "" && s.LastURL == url && s.CachedText != "" && s.CachedSummary != ""
}

// Remember caches the extracted page and its summary for url. Any diagram
// from a previous URL is cleared.
func (s *State) Remember(url, title, text, summary string) {
	if s.LastURL != url {
		s.LastDiagram = ""
		s.LastKind = ""
	}
	s.LastURL = url
	s.CachedTitle = title
	s.CachedText = text
	s.CachedSummary = summary
}

// SetDiagram records the latest rendered diagram.
func (s *State) SetDiagram(kind mermaid.Kind, code string) {
	s.LastKind = kind
	s.LastDiagram = code
	s.LastError = ""
}

// Clear drops the cached page, summary and diagram.
func (s *State) Clear() {
	s.LastURL = ""
	s.CachedTitle = ""
	s.CachedText = ""
	s.CachedSummary = ""
	s.LastDiagram = ""
	s.LastKind = ""
	s.LastError = ""
}
