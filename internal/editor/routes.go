package editor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/markdown"
	"github.com/aroldanm/mkdw-demo/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the editor API routes. All of them require a
// signed-in caller; anonymous visitors never author.
func RegisterRoutes(r chi.Router, mgr *Manager, docs *document.Store, renderer *markdown.Renderer) {
	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth)
		r.Route("/api/editor", func(r chi.Router) {
			r.Post("/", handleOpen(mgr, docs))
			r.Get("/commands", handleCommands())
			r.Get("/{id}", handleGet(mgr))
			r.Post("/{id}/apply", handleApply(mgr))
			r.Put("/{id}/content", handleSetContent(mgr))
			r.Post("/{id}/mode", handleSetMode(mgr))
			r.Get("/{id}/preview", handlePreview(mgr, renderer))
			r.Post("/{id}/save", handleSave(mgr, docs))
			r.Delete("/{id}", handleCancel(mgr))
		})
		r.Get("/ws/editor/{id}", handleLivePreview(mgr, renderer))
	})
}

type openRequest struct {
	DocumentID string `json:"document_id"`
}

func handleOpen(mgr *Manager, docs *document.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		sess, _ := session.FromContext(r.Context())

		var s *Session
		if req.DocumentID == "" {
			s = mgr.OpenDraft(sess.ID, docs.NewDraft(sess.ID))
		} else {
			doc, err := docs.Get(r.Context(), req.DocumentID)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
			if doc == nil {
				http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
				return
			}
			s = mgr.Open(sess.ID, doc)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(s)
	}
}

func handleCommands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Toolbar)
	}
}

func handleGet(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}
}

type applyRequest struct {
	Command string `json:"command"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func handleApply(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		s, err := mgr.ApplyCommand(chi.URLParam(r, "id"), req.Command, Span{Start: req.Start, End: req.End})
		switch {
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrBadSelection):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}
}

type contentRequest struct {
	Content string `json:"content"`
}

func handleSetContent(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		s, err := mgr.SetBuffer(chi.URLParam(r, "id"), req.Content)
		if err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}
}

type modeRequest struct {
	Preview bool `json:"preview"`
}

func handleSetMode(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req modeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		s, err := mgr.SetPreview(chi.URLParam(r, "id"), req.Preview)
		if err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}
}

func handlePreview(mgr *Manager, renderer *markdown.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		html, err := renderer.Render(s.Buffer)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

type saveResponse struct {
	Document *document.Document `json:"document"`
	Next     string             `json:"next"`
}

func handleSave(mgr *Manager, docs *document.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, err := mgr.Get(id)
		if err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		var doc *document.Document
		if s.IsDraft() {
			doc, err = docs.CommitDraft(r.Context(), s.Draft, s.Buffer)
		} else {
			if err = docs.UpdateContent(r.Context(), s.DocumentID, s.Buffer); err == nil {
				doc, err = docs.Get(r.Context(), s.DocumentID)
			}
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		mgr.Close(id)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(saveResponse{Document: doc, Next: "admin"})
	}
}

func handleCancel(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Cancel discards any uncommitted draft; closing an already
		// closed session is a no-op.
		mgr.Close(chi.URLParam(r, "id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"next": "admin"})
	}
}

type previewMessage struct {
	Content string `json:"content"`
}

type previewReply struct {
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleLivePreview streams rendered markdown back to a single editing
// client as it types. Not a collaboration channel.
func handleLivePreview(mgr *Manager, renderer *markdown.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := mgr.Get(id); err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("editor: websocket upgrade")
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Msg("editor: websocket read")
				}
				return
			}

			var req previewMessage
			if err := json.Unmarshal(msg, &req); err != nil {
				conn.WriteJSON(previewReply{Error: "invalid message format"})
				continue
			}

			if _, err := mgr.SetBuffer(id, req.Content); err != nil {
				conn.WriteJSON(previewReply{Error: "session closed"})
				return
			}

			html, err := renderer.Render(req.Content)
			if err != nil {
				conn.WriteJSON(previewReply{Error: err.Error()})
				continue
			}
			conn.WriteJSON(previewReply{HTML: string(html)})
		}
	}
}
