package share

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/session"
)

// RegisterRoutes mounts the share-link API route.
func RegisterRoutes(r chi.Router, docs *document.Store, baseURL string) {
	r.With(session.RequireAuth).Get("/api/documents/{id}/share", handleShareLink(docs, baseURL))
}

func handleShareLink(docs *document.Store, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		doc, err := docs.Get(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if doc == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		link, err := Encode(baseURL, doc.ID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"url": link})
	}
}
