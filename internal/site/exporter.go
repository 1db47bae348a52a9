// Package site exports the public documents as a static HTML site:
// an index page plus one page per document.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/markdown"
)

// Exporter writes public documents to a static output directory.
type Exporter struct {
	Docs      *document.Store
	Renderer  *markdown.Renderer
	OutputDir string
	SiteTitle string
}

// NewExporter creates an Exporter.
func NewExporter(docs *document.Store, renderer *markdown.Renderer, outputDir, siteTitle string) *Exporter {
	return &Exporter{
		Docs:      docs,
		Renderer:  renderer,
		OutputDir: outputDir,
		SiteTitle: siteTitle,
	}
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	SiteTitle string
	Title     string
	Content   template.HTML
}

// indexData holds the data for the index page.
type indexData struct {
	SiteTitle string
	Documents []document.Document
}

// Export renders every public document plus an index page. The report
// callback, when non-nil, is invoked after each page. Returns the number
// of document pages written.
func (e *Exporter) Export(ctx context.Context, report func(current int, title string)) (int, error) {
	docs, err := e.Docs.List(ctx, document.ListFilter{PublicOnly: true})
	if err != nil {
		return 0, fmt.Errorf("listing public documents: %w", err)
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("no public documents to export")
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(e.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}

	pageTmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing page template: %w", err)
	}
	indexTmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing index template: %w", err)
	}

	for i, doc := range docs {
		if err := e.writePage(pageTmpl, &doc); err != nil {
			return 0, fmt.Errorf("exporting %s: %w", doc.FileName, err)
		}
		if report != nil {
			report(i+1, doc.Title)
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexData{SiteTitle: e.SiteTitle, Documents: docs}); err != nil {
		return 0, fmt.Errorf("rendering index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(e.OutputDir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return 0, err
	}

	return len(docs), nil
}

// writePage renders a single document to <id>.html.
func (e *Exporter) writePage(tmpl *template.Template, doc *document.Document) error {
	content, err := e.Renderer.Render(doc.Content)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		SiteTitle: e.SiteTitle,
		Title:     doc.Title,
		Content:   content,
	})
	if err != nil {
		return err
	}

	outPath := filepath.Join(e.OutputDir, doc.ID+".html")
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}
