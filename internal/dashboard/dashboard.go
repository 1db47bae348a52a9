// Package dashboard serves the HTML pages of the application: the
// landing page, the signed-in document list, the editor, and the viewer.
// The active page is derived from the session, the shareable-link
// parameter, and any editor session in flight.
package dashboard

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/editor"
	"github.com/aroldanm/mkdw-demo/internal/markdown"
)

//go:embed static
var staticFS embed.FS

// Dashboard renders the application pages.
type Dashboard struct {
	docs      *document.Store
	editors   *editor.Manager
	renderer  *markdown.Renderer
	siteTitle string
	baseURL   string
}

// New creates a new Dashboard.
func New(docs *document.Store, editors *editor.Manager, renderer *markdown.Renderer, siteTitle, baseURL string) *Dashboard {
	return &Dashboard{
		docs:      docs,
		editors:   editors,
		renderer:  renderer,
		siteTitle: siteTitle,
		baseURL:   baseURL,
	}
}

// RegisterRoutes mounts the page routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))
}
