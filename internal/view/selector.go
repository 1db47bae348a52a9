package view

// View names one of the four application views.
type View string

const (
	Landing View = "landing" // unauthenticated start page
	Admin   View = "admin"   // authenticated document list
	Viewer  View = "viewer"  // rendering one document
	Editor  View = "editor"  // authoring one document or draft
)

// State captures the inputs view selection is derived from. The link
// parameter is an input only; nothing here mutates it.
type State struct {
	Authenticated bool
	// LinkedID is the document identifier decoded from the shareable
	// link parameter, empty when absent.
	LinkedID string
	// EditorOpen reports whether the caller has an editor session in
	// flight (a draft or an existing document being edited).
	EditorOpen bool
}

// Lookup resolves a document identifier to its existence and visibility.
type Lookup func(id string) (found bool, isPublic bool)

// Selection is the outcome of resolving the state machine.
type Selection struct {
	View       View   `json:"view"`
	DocumentID string `json:"document_id,omitempty"`
	// Restricted marks a private document reached by link without a
	// session: the viewer shows a sign-in placeholder, never content.
	Restricted bool `json:"restricted,omitempty"`
	// NotFound marks a link parameter that resolves to no document.
	NotFound bool `json:"not_found,omitempty"`
}

// Resolve derives the active view. A present link parameter always wins;
// otherwise an in-flight editor session binds the editor; otherwise the
// session decides between admin and landing.
func Resolve(st State, lookup Lookup) Selection {
	if st.LinkedID != "" {
		found, isPublic := lookup(st.LinkedID)
		switch {
		case !found:
			return Selection{View: Viewer, NotFound: true}
		case isPublic || st.Authenticated:
			return Selection{View: Viewer, DocumentID: st.LinkedID}
		default:
			return Selection{View: Viewer, DocumentID: st.LinkedID, Restricted: true}
		}
	}

	if st.EditorOpen && st.Authenticated {
		return Selection{View: Editor}
	}

	if st.Authenticated {
		return Selection{View: Admin}
	}
	return Selection{View: Landing}
}
