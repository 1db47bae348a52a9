package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Kind identifies a markdown element class for presentation mapping.
type Kind string

const (
	KindHeading1   Kind = "h1"
	KindHeading2   Kind = "h2"
	KindHeading3   Kind = "h3"
	KindParagraph  Kind = "p"
	KindLink       Kind = "a"
	KindImage      Kind = "img"
	KindList       Kind = "list"
	KindListItem   Kind = "li"
	KindBlockquote Kind = "blockquote"
	KindTable      Kind = "table"
	KindTableCell  Kind = "td"
)

// Options configures a Renderer once at construction.
type Options struct {
	// Styles maps element kinds to the CSS class applied to rendered
	// elements. Kinds absent from the map render unstyled.
	Styles map[Kind]string
	// HighlightStyle names the chroma style for fenced code blocks.
	HighlightStyle string
}

// DefaultStyles is the presentation treatment the viewer and editor
// preview use.
func DefaultStyles() map[Kind]string {
	return map[Kind]string{
		KindHeading1:   "doc-h1",
		KindHeading2:   "doc-h2",
		KindHeading3:   "doc-h3",
		KindParagraph:  "doc-p",
		KindLink:       "doc-link",
		KindImage:      "doc-img",
		KindList:       "doc-list",
		KindListItem:   "doc-li",
		KindBlockquote: "doc-quote",
		KindTable:      "doc-table",
		KindTableCell:  "doc-cell",
	}
}

// Renderer converts markdown to HTML. It is a pure function of its input:
// GFM tables/strikethrough/task lists are enabled, raw markup passes
// through, and fenced code blocks are highlighted.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer with the given options.
func New(opts Options) *Renderer {
	style := opts.HighlightStyle
	if style == "" {
		style = "github"
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&styleTransformer{styles: opts.Styles}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{md: md}
}

// Render converts markdown source to HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// styleTransformer applies the kind->class mapping to the parsed tree.
type styleTransformer struct {
	styles map[Kind]string
}

func (t *styleTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if len(t.styles) == 0 {
		return
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		kind, ok := t.kindOf(n)
		if !ok {
			return ast.WalkContinue, nil
		}
		if class, ok := t.styles[kind]; ok && class != "" {
			n.SetAttributeString("class", []byte(class))
		}
		return ast.WalkContinue, nil
	})
}

func (t *styleTransformer) kindOf(n ast.Node) (Kind, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		switch node.Level {
		case 1:
			return KindHeading1, true
		case 2:
			return KindHeading2, true
		case 3:
			return KindHeading3, true
		}
	case *ast.Paragraph:
		return KindParagraph, true
	case *ast.Link:
		return KindLink, true
	case *ast.Image:
		return KindImage, true
	case *ast.List:
		return KindList, true
	case *ast.ListItem:
		return KindListItem, true
	case *ast.Blockquote:
		return KindBlockquote, true
	case *extast.Table:
		return KindTable, true
	case *extast.TableCell:
		return KindTableCell, true
	}
	return "", false
}
