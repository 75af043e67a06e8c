package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/fetch"
	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/session"
)

// frameMargin is added to the recommended height so the viewer toolbar
// fits inside the embedding iframe.
const frameMargin = 50

var funcs = template.FuncMap{
	"usd": func(v float64) string { return fmt.Sprintf("$%.4f", v) },
}

type kindView struct {
	Kind        mermaid.Kind
	Title       string
	Icon        string
	Description string
	BestFor     string
	Uses        []string
	Selected    bool
}

func viewKind(k, selected mermaid.Kind) kindView {
	return kindView{
		Kind:        k,
		Title:       k.Title(),
		Icon:        k.Icon(),
		Description: k.Description(),
		BestFor:     k.BestFor(),
		Uses:        k.Uses(),
		Selected:    k == selected,
	}
}

type layoutView struct {
	Page           session.Page
	FontAwesomeURL string
	Kinds          []kindView
	Selected       kindView
}

type mainView struct {
	layoutView

	URL     string
	Preview string
	Title   string
	Text    string
	Summary template.HTML

	Diagram     string
	DiagramKind kindView
	Complexity  *mermaid.ComplexityReport
	FrameHeight int
	OtherKinds  []kindView

	Cached       bool
	Usage        *llm.Usage
	SummaryError string
	Error        string
	Hints        []string
}

func (h *Handler) layout(st *session.State) layoutView {
	v := layoutView{
		Page:           st.CurrentPage,
		FontAwesomeURL: h.faURL,
		Selected:       viewKind(st.SelectedDiagram, st.SelectedDiagram),
	}
	for _, k := range mermaid.Kinds {
		v.Kinds = append(v.Kinds, viewKind(k, st.SelectedDiagram))
	}
	return v
}

// mainPage builds the mapper page from the session, adding the details
// of the run that just finished when res or runErr is set.
func (h *Handler) mainPage(st *session.State, res *pipeline.Result, runErr error) (mainView, error) {
	v := mainView{layoutView: h.layout(st)}

	v.URL = st.LastURL
	v.Title = st.CachedTitle
	v.Text = st.CachedText
	if v.URL != "" {
		v.Preview = fetch.NormalizeURL(v.URL)
	}
	if st.CachedSummary != "" {
		summary, err := h.renderer.SummaryHTML(st.CachedSummary)
		if err != nil {
			return v, err
		}
		v.Summary = summary
	}

	if st.LastDiagram != "" {
		report := h.pipeline.Layout().Analyze(st.LastDiagram)
		v.Diagram = st.LastDiagram
		v.DiagramKind = viewKind(st.LastKind, st.SelectedDiagram)
		v.Complexity = &report
		v.FrameHeight = report.RecommendedHeight + frameMargin
		for _, k := range mermaid.Kinds {
			if k != st.LastKind {
				v.OtherKinds = append(v.OtherKinds, viewKind(k, st.SelectedDiagram))
			}
		}
	}

	if res != nil {
		v.Cached = res.Cached
		v.Usage = &res.Usage
		if res.SummaryError != nil {
			v.SummaryError = res.SummaryError.Error()
		}
		// Fall back to the run's own page when the session holds none.
		if v.Text == "" {
			v.URL, v.Title, v.Text = res.URL, res.Title, res.Text
		}
	}
	if runErr != nil {
		v.Error = runErr.Error()
		var ae *apperr.Error
		if errors.As(runErr, &ae) {
			v.Hints = ae.Hints()
		}
	}
	return v, nil
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.WithError(err).WithField("page", page).Error("rendering page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) handleMain(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	st.CurrentPage = session.PageMain
	v, err := h.mainPage(st, nil, nil)
	if err != nil {
		h.log.WithError(err).Error("building main page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "main", v)
}

func (h *Handler) handleLibrary(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	st.CurrentPage = session.PageLibrary
	h.render(w, http.StatusOK, "library", h.layout(st))
}

// handleGenerate runs the pipeline for the submitted form and renders the
// mapper page with the outcome.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	st.CurrentPage = session.PageMain

	req, err := formRequest(r)
	var res *pipeline.Result
	if err == nil {
		res, err = h.pipeline.Run(r.Context(), st, req, nil)
	} else {
		st.LastError = err.Error()
	}

	v, verr := h.mainPage(st, res, err)
	if verr != nil {
		h.log.WithError(verr).Error("building main page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if v.URL == "" {
		v.URL = strings.TrimSpace(r.PostFormValue("url"))
	}
	h.render(w, statusFor(err), "main", v)
}

func formRequest(r *http.Request) (pipeline.Request, error) {
	if err := r.ParseForm(); err != nil {
		return pipeline.Request{}, fmt.Errorf("invalid form: %w", err)
	}
	req := pipeline.Request{
		URL:   r.PostFormValue("url"),
		Force: r.PostFormValue("force") != "",
	}
	if k := r.PostFormValue("kind"); k != "" {
		kind, err := mermaid.ParseKind(k)
		if err != nil {
			return req, err
		}
		req.Kind = kind
	}
	return req, nil
}

// handleSelect chooses a diagram kind from the library and returns to the
// mapper page.
func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	kind, err := mermaid.ParseKind(r.PostFormValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st.SelectedDiagram = kind
	st.CurrentPage = session.PageMain
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Clear()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDiagram serves the standalone viewer for the session's last
// diagram. ?download=1 serves it as an attachment.
func (h *Handler) handleDiagram(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	if st.LastDiagram == "" {
		http.Error(w, "no diagram generated yet", http.StatusNotFound)
		return
	}
	page, err := h.renderer.Viewer(st.LastDiagram, h.pipeline.Layout().Analyze(st.LastDiagram))
	if err != nil {
		h.log.WithError(err).Error("rendering viewer")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="neuromind-%s.html"`, st.LastKind))
	}
	w.Write([]byte(page))
}
