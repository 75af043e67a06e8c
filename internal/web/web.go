// Package web serves the browser interface: the mapper page, the diagram
// library, the standalone viewer, a JSON API and a WebSocket endpoint that
// streams generation progress.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/neuromind/internal/logging"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/render"
	"github.com/ziadkadry99/neuromind/internal/session"
)

// CookieName holds the session ID.
const CookieName = "neuromind_session"

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the web handler. Pipeline, Sessions and Renderer are
// required.
type Options struct {
	Pipeline *pipeline.Pipeline
	Sessions session.Store
	Renderer *render.Renderer
	Logger   logging.Logger
	// RequestTimeout bounds one generation, over HTTP or WebSocket.
	RequestTimeout time.Duration
	FontAwesomeURL string
}

// Handler serves the browser interface.
type Handler struct {
	pipeline *pipeline.Pipeline
	sessions session.Store
	renderer *render.Renderer
	log      logging.Logger
	timeout  time.Duration
	faURL    string
	pages    map[string]*template.Template
}

// New parses the page templates and returns a handler.
func New(opts Options) (*Handler, error) {
	if opts.Pipeline == nil || opts.Sessions == nil || opts.Renderer == nil {
		return nil, errors.New("web: pipeline, sessions and renderer are required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}
	if opts.FontAwesomeURL == "" {
		opts.FontAwesomeURL = render.DefaultFontAwesomeURL
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"main", "library"} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Handler{
		pipeline: opts.Pipeline,
		sessions: opts.Sessions,
		renderer: opts.Renderer,
		log:      opts.Logger,
		timeout:  opts.RequestTimeout,
		faURL:    opts.FontAwesomeURL,
		pages:    pages,
	}, nil
}

// RegisterRoutes mounts all web routes onto the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/ws/generate", h.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(h.timeout))
			r.Get("/", h.handleMain)
			r.Get("/library", h.handleLibrary)
			r.Get("/diagram", h.handleDiagram)
			r.Post("/generate", h.handleGenerate)
			r.Post("/select", h.handleSelect)
			r.Post("/clear", h.handleClear)
			r.Post("/api/generate", h.handleAPIGenerate)
			r.Get("/api/session", h.handleAPISession)
		})
	})
}

type sessionKey struct{}

// withSession loads the visitor's session from the cookie, creating one
// when needed, and saves it after the request.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}
		st, err := session.LoadOrCreate(r.Context(), h.sessions, id)
		if err != nil {
			h.log.WithError(err).Error("loading session")
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		if st.ID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    st.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, st)))
		h.save(r.Context(), st)
	})
}

func (h *Handler) save(ctx context.Context, st *session.State) {
	if err := h.sessions.Save(context.WithoutCancel(ctx), st); err != nil {
		h.log.WithError(err).WithField("session", st.ID).Error("saving session")
	}
}

func sessionFrom(r *http.Request) *session.State {
	return r.Context().Value(sessionKey{}).(*session.State)
}
