package view

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/session"
	"github.com/aroldanm/mkdw-demo/internal/share"
)

// EditorStates reports whether an owner has an editor session in flight.
// Satisfied by editor.Manager.
type EditorStates interface {
	OpenFor(ownerID string) bool
}

type viewResponse struct {
	Selection
	Document *document.Document `json:"document,omitempty"`
}

// RegisterRoutes mounts the view-selection API route.
func RegisterRoutes(r chi.Router, docs *document.Store, editors EditorStates) {
	r.Get("/api/view", handleView(docs, editors))
}

func handleView(docs *document.Store, editors EditorStates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, authed := session.FromContext(r.Context())

		// The link parameter reaches selection only through the codec.
		linkedID, _ := share.Decode(r.URL.RawQuery)

		st := State{
			Authenticated: authed,
			LinkedID:      linkedID,
		}
		if authed && editors != nil {
			st.EditorOpen = editors.OpenFor(sess.ID)
		}

		var resolved *document.Document
		var lookupErr error
		sel := Resolve(st, func(id string) (bool, bool) {
			doc, err := docs.Get(r.Context(), id)
			if err != nil {
				lookupErr = err
				return false, false
			}
			resolved = doc
			return doc != nil, doc != nil && doc.IsPublic
		})
		if lookupErr != nil {
			http.Error(w, `{"error":"`+lookupErr.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		resp := viewResponse{Selection: sel}
		if sel.View == Viewer && sel.DocumentID != "" && !sel.Restricted {
			resp.Document = resolved
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
