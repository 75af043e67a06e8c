package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/neuromind/internal/db"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("session not found")

// Store persists session state.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, id string) error
}

// SQLStore keeps sessions in the SQLite sessions table.
type SQLStore struct {
	db *db.DB
}

// NewSQLStore creates a store backed by d.
func NewSQLStore(d *db.DB) *SQLStore {
	return &SQLStore{db: d}
}

// Get loads the session with the given ID.
func (s *SQLStore) Get(ctx context.Context, id string) (*State, error) {
	var st State
	var page, selected, lastKind string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, current_page, selected_diagram, last_url, cached_title, cached_text,
		        cached_summary, last_diagram, last_kind, last_error, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&st.ID, &page, &selected, &st.LastURL, &st.CachedTitle, &st.CachedText,
		&st.CachedSummary, &st.LastDiagram, &lastKind, &st.LastError, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	st.CurrentPage = Page(page)
	st.SelectedDiagram = mermaid.Kind(selected)
	st.LastKind = mermaid.Kind(lastKind)
	return &st, nil
}

// Save inserts or updates st and bumps its UpdatedAt.
func (s *SQLStore) Save(ctx context.Context, st *State) error {
	if st.ID == "" {
		return fmt.Errorf("saving session: empty id")
	}
	if st.CurrentPage == "" {
		st.CurrentPage = PageMain
	}
	if st.SelectedDiagram == "" {
		st.SelectedDiagram = mermaid.KindMindmap
	}
	now := time.Now().UTC()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}
	st.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, current_page, selected_diagram, last_url, cached_title, cached_text,
		                       cached_summary, last_diagram, last_kind, last_error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     current_page = excluded.current_page,
		     selected_diagram = excluded.selected_diagram,
		     last_url = excluded.last_url,
		     cached_title = excluded.cached_title,
		     cached_text = excluded.cached_text,
		     cached_summary = excluded.cached_summary,
		     last_diagram = excluded.last_diagram,
		     last_kind = excluded.last_kind,
		     last_error = excluded.last_error,
		     updated_at = excluded.updated_at`,
		st.ID, string(st.CurrentPage), string(st.SelectedDiagram), st.LastURL, st.CachedTitle, st.CachedText,
		st.CachedSummary, st.LastDiagram, string(st.LastKind), st.LastError, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", st.ID, err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// Prune deletes sessions idle for longer than maxAge and returns how many
// were removed.
func (s *SQLStore) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return res.RowsAffected()
}

// LoadOrCreate returns the session for id, or a new one when id is empty
// or unknown. The new session is not saved.
func LoadOrCreate(ctx context.Context, store Store, id string) (*State, error) {
	if id != "" {
		st, err := store.Get(ctx, id)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return New(), nil
}
