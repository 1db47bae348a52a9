package dashboard

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/editor"
	"github.com/aroldanm/mkdw-demo/internal/session"
	"github.com/aroldanm/mkdw-demo/internal/share"
	"github.com/aroldanm/mkdw-demo/internal/view"
)

type landingData struct {
	SiteTitle string
}

type adminData struct {
	SiteTitle string
	Email     string
	Documents []document.Document
}

type viewerData struct {
	SiteTitle     string
	Authenticated bool
	Restricted    bool
	NotFound      bool
	Document      *document.Document
	HTML          template.HTML
	ShareURL      string
}

type editorData struct {
	SiteTitle   string
	Session     *editor.Session
	Commands    []editor.Command
	PreviewHTML template.HTML
}

// ServeIndex resolves which page the request lands on and renders it.
// A shareable link parameter always wins; otherwise an open editor
// session binds the editor; otherwise the session decides between the
// document list and the landing page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	sess, authed := session.FromContext(r.Context())

	linkedID, _ := share.Decode(r.URL.RawQuery)

	st := view.State{
		Authenticated: authed,
		LinkedID:      linkedID,
	}
	if authed {
		st.EditorOpen = d.editors.OpenFor(sess.ID)
	}

	var linked *document.Document
	sel := view.Resolve(st, func(id string) (bool, bool) {
		doc, err := d.docs.Get(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("link lookup failed")
			return false, false
		}
		linked = doc
		return doc != nil, doc != nil && doc.IsPublic
	})

	switch sel.View {
	case view.Viewer:
		d.serveViewer(w, r, sel, linked, authed)
	case view.Editor:
		d.serveEditor(w, r, sess.ID)
	case view.Admin:
		d.serveAdmin(w, r, sess)
	default:
		d.render(w, "landing.html", landingData{SiteTitle: d.siteTitle})
	}
}

func (d *Dashboard) serveAdmin(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	docs, err := d.docs.List(r.Context(), document.ListFilter{OwnerID: sess.ID})
	if err != nil {
		http.Error(w, "listing documents failed", http.StatusInternalServerError)
		return
	}
	d.render(w, "admin.html", adminData{
		SiteTitle: d.siteTitle,
		Email:     sess.Email,
		Documents: docs,
	})
}

func (d *Dashboard) serveViewer(w http.ResponseWriter, r *http.Request, sel view.Selection, doc *document.Document, authed bool) {
	data := viewerData{
		SiteTitle:     d.siteTitle,
		Authenticated: authed,
		Restricted:    sel.Restricted,
		NotFound:      sel.NotFound,
	}

	if doc != nil && !sel.Restricted {
		html, err := d.renderer.Render(doc.Content)
		if err != nil {
			http.Error(w, "rendering document failed", http.StatusInternalServerError)
			return
		}
		data.Document = doc
		data.HTML = html
		if url, err := share.Encode(d.baseURL, doc.ID); err == nil {
			data.ShareURL = url
		}
	}

	d.render(w, "viewer.html", data)
}

func (d *Dashboard) serveEditor(w http.ResponseWriter, r *http.Request, ownerID string) {
	es := d.editors.ForOwner(ownerID)
	if es == nil {
		// Session closed between resolution and render; fall back.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := editorData{
		SiteTitle: d.siteTitle,
		Session:   es,
		Commands:  editor.Toolbar,
	}
	if es.Preview {
		html, err := d.renderer.Render(es.Buffer)
		if err != nil {
			http.Error(w, "rendering preview failed", http.StatusInternalServerError)
			return
		}
		data.PreviewHTML = html
	}

	d.render(w, "editor.html", data)
}

func (d *Dashboard) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("page render failed")
	}
}
