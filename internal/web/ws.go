package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/progress"
	"github.com/ziadkadry99/neuromind/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the outgoing WebSocket message format.
type wsMessage struct {
	Type     string            `json:"type"` // "stage", "result" or "error"
	Stage    pipeline.Stage    `json:"stage,omitempty"`
	Label    string            `json:"label,omitempty"`
	Done     bool              `json:"done,omitempty"`
	Cached   bool              `json:"cached,omitempty"`
	Skipped  bool              `json:"skipped,omitempty"`
	Duration int64             `json:"duration_ms,omitempty"`
	Result   *generateResponse `json:"result,omitempty"`
	Error    *errorResponse    `json:"error,omitempty"`
}

// handleWebSocket runs one generation per incoming message and streams a
// stage message as each pipeline stage starts and finishes.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	st := sessionFrom(r)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Warn("websocket read")
			}
			return
		}

		var body generateRequest
		if err := json.Unmarshal(msg, &body); err != nil {
			h.send(conn, wsMessage{Type: "error", Error: &errorResponse{Error: "invalid message format"}})
			continue
		}
		h.runStreaming(r.Context(), conn, st, body)
	}
}

func (h *Handler) runStreaming(ctx context.Context, conn *websocket.Conn, st *session.State, body generateRequest) {
	req, err := body.toPipeline()
	if err != nil {
		resp := newErrorResponse(err)
		h.send(conn, wsMessage{Type: "error", Error: &resp})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := h.pipeline.Run(ctx, st, req, func(e pipeline.Event) {
		h.send(conn, wsMessage{
			Type:     "stage",
			Stage:    e.Stage,
			Label:    progress.Label(e.Stage),
			Done:     e.Done,
			Cached:   e.Cached,
			Skipped:  e.Skipped,
			Duration: e.Duration.Milliseconds(),
		})
	})
	h.save(ctx, st)
	if err != nil {
		resp := newErrorResponse(err)
		h.send(conn, wsMessage{Type: "error", Error: &resp})
		return
	}
	out := newGenerateResponse(res)
	h.send(conn, wsMessage{Type: "result", Result: &out})
}

func (h *Handler) send(conn *websocket.Conn, m wsMessage) {
	if err := conn.WriteJSON(m); err != nil {
		h.log.WithError(err).Warn("websocket write")
	}
}
