package document

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aroldanm/mkdw-demo/internal/markdown"
	"github.com/aroldanm/mkdw-demo/internal/session"
)

// maxUploadMemory bounds the in-memory part of multipart parsing.
const maxUploadMemory = 10 << 20

// RegisterRoutes mounts the document API routes. onDelete, when non-nil,
// runs after a successful delete so callers can clear state bound to the
// removed document (such as open editor sessions).
func RegisterRoutes(r chi.Router, store *Store, renderer *markdown.Renderer, onDelete func(id string)) {
	r.Route("/api/documents", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(session.RequireAuth)
			r.Get("/", handleList(store))
			r.Post("/upload", handleUpload(store))
			r.Put("/{id}/content", handleUpdateContent(store))
			r.Put("/{id}/title", handleUpdateTitle(store))
			r.Post("/{id}/visibility", handleToggleVisibility(store))
			r.Delete("/{id}", handleDelete(store, onDelete))
		})

		// Reads are gated by visibility, not by authentication.
		r.Get("/{id}", handleGet(store))
		r.Get("/{id}/html", handleGetHTML(store, renderer))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{}
		if r.URL.Query().Get("owner") == "me" {
			sess, _ := session.FromContext(r.Context())
			filter.OwnerID = sess.ID
		}

		docs, err := store.List(r.Context(), filter)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if docs == nil {
			docs = []Document{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(docs)
	}
}

func handleUpload(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			http.Error(w, `{"error":"invalid multipart body"}`, http.StatusBadRequest)
			return
		}

		sess, _ := session.FromContext(r.Context())

		var created []Document
		for _, header := range r.MultipartForm.File["files"] {
			// Non-markdown files are skipped, not fatal.
			if !strings.HasSuffix(header.Filename, ".md") {
				continue
			}

			f, err := header.Open()
			if err != nil {
				http.Error(w, `{"error":"reading upload: `+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
			raw, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, `{"error":"reading upload: `+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}

			doc, err := store.Upload(r.Context(), string(raw), header.Filename, sess.ID)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
			created = append(created, *doc)
		}

		if len(created) == 0 {
			http.Error(w, `{"error":"`+ErrNoMarkdownFiles.Error()+`"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// fetchVisible loads a document and enforces the visibility rule: private
// documents are only served to signed-in callers.
func fetchVisible(store *Store, w http.ResponseWriter, r *http.Request) *Document {
	id := chi.URLParam(r, "id")

	doc, err := store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return nil
	}
	if doc == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return nil
	}
	if _, authed := session.FromContext(r.Context()); !doc.IsPublic && !authed {
		http.Error(w, `{"error":"document is private"}`, http.StatusForbidden)
		return nil
	}
	return doc
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := fetchVisible(store, w, r)
		if doc == nil {
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}
}

func handleGetHTML(store *Store, renderer *markdown.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := fetchVisible(store, w, r)
		if doc == nil {
			return
		}

		html, err := renderer.Render(doc.Content)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

type contentRequest struct {
	Content string `json:"content"`
}

func handleUpdateContent(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req contentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		if doc, _ := getOr404(store, w, r, id); doc == nil {
			return
		}

		if err := store.UpdateContent(r.Context(), id, req.Content); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		respondWithDocument(store, w, r, id)
	}
}

type titleRequest struct {
	Title string `json:"title"`
}

func handleUpdateTitle(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req titleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		if doc, _ := getOr404(store, w, r, id); doc == nil {
			return
		}

		if err := store.UpdateTitle(r.Context(), id, req.Title); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		respondWithDocument(store, w, r, id)
	}
}

func handleToggleVisibility(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if doc, _ := getOr404(store, w, r, id); doc == nil {
			return
		}

		if err := store.ToggleVisibility(r.Context(), id); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		respondWithDocument(store, w, r, id)
	}
}

func handleDelete(store *Store, onDelete func(id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := store.Delete(r.Context(), id); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if onDelete != nil {
			onDelete(id)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

func getOr404(store *Store, w http.ResponseWriter, r *http.Request, id string) (*Document, error) {
	doc, err := store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return nil, err
	}
	if doc == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return nil, ErrNotFound
	}
	return doc, nil
}

func respondWithDocument(store *Store, w http.ResponseWriter, r *http.Request, id string) {
	doc, err := store.Get(r.Context(), id)
	if err != nil || doc == nil {
		if err == nil {
			err = errors.New("document vanished during update")
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
