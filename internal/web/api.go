package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/session"
)

// generateRequest is the body of POST /api/generate and of each WebSocket
// message.
type generateRequest struct {
	URL   string `json:"url"`
	Type  string `json:"type"`
	Force bool   `json:"force"`
}

func (g generateRequest) toPipeline() (pipeline.Request, error) {
	req := pipeline.Request{URL: g.URL, Force: g.Force}
	if g.Type != "" {
		kind, err := mermaid.ParseKind(g.Type)
		if err != nil {
			return req, err
		}
		req.Kind = kind
	}
	return req, nil
}

type repairSummary struct {
	Root         string `json:"root"`
	Branches     int    `json:"branches"`
	NestedItems  int    `json:"nested_items"`
	Dropped      int    `json:"dropped"`
	UsedFallback bool   `json:"used_fallback"`
}

type generateResponse struct {
	URL          string                   `json:"url"`
	Title        string                   `json:"title"`
	Summary      string                   `json:"summary"`
	SummaryError string                   `json:"summary_error,omitempty"`
	Type         mermaid.Kind             `json:"type"`
	RawDiagram   string                   `json:"raw_diagram"`
	Diagram      string                   `json:"diagram"`
	Repair       *repairSummary           `json:"repair,omitempty"`
	Complexity   mermaid.ComplexityReport `json:"complexity"`
	Cached       bool                     `json:"cached"`
	Usage        llm.Usage                `json:"usage"`
}

type errorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Hints []string `json:"hints,omitempty"`
}

type sessionResponse struct {
	ID              string       `json:"id"`
	CurrentPage     session.Page `json:"current_page"`
	SelectedDiagram mermaid.Kind `json:"selected_diagram"`
	LastURL         string       `json:"last_url,omitempty"`
	HasSummary      bool         `json:"has_summary"`
	LastKind        mermaid.Kind `json:"last_kind,omitempty"`
	LastError       string       `json:"last_error,omitempty"`
}

func newGenerateResponse(res *pipeline.Result) generateResponse {
	out := generateResponse{
		URL:        res.URL,
		Title:      res.Title,
		Summary:    res.Summary,
		Type:       res.Kind,
		RawDiagram: res.RawDiagram,
		Diagram:    res.Diagram,
		Complexity: res.Complexity,
		Cached:     res.Cached,
		Usage:      res.Usage,
	}
	if res.SummaryError != nil {
		out.SummaryError = res.SummaryError.Error()
	}
	if rep := res.Repair; rep != nil {
		out.Repair = &repairSummary{
			Root:         rep.Root,
			Branches:     rep.Branches,
			NestedItems:  rep.NestedItems,
			Dropped:      rep.Dropped,
			UsedFallback: rep.UsedFallback,
		}
	}
	return out
}

func newErrorResponse(err error) errorResponse {
	out := errorResponse{Error: err.Error()}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		out.Kind = string(ae.Kind)
		out.Hints = ae.Hints()
	}
	return out
}

// statusFor maps a run error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperr.Is(err, apperr.Config):
		return http.StatusServiceUnavailable
	case apperr.Is(err, apperr.Fetch), apperr.Is(err, apperr.LLM):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case apperr.KindOf(err) == "":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)

	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	req, err := body.toPipeline()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, newErrorResponse(err))
		return
	}

	res, err := h.pipeline.Run(r.Context(), st, req, nil)
	if err != nil {
		writeJSON(w, statusFor(err), newErrorResponse(err))
		return
	}
	writeJSON(w, http.StatusOK, newGenerateResponse(res))
}

func (h *Handler) handleAPISession(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r)
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:              st.ID,
		CurrentPage:     st.CurrentPage,
		SelectedDiagram: st.SelectedDiagram,
		LastURL:         st.LastURL,
		HasSummary:      st.CachedSummary != "",
		LastKind:        st.LastKind,
		LastError:       st.LastError,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
