package site

// pageTemplate renders one exported document.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} — {{.SiteTitle}}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <header><a href="index.html">{{.SiteTitle}}</a></header>
  <main class="doc-body">
{{.Content}}
  </main>
</body>
</html>
`

// indexTemplate renders the exported site index.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.SiteTitle}}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <header><span>{{.SiteTitle}}</span></header>
  <main>
    <ul class="doc-index">
      {{range .Documents}}
      <li><a href="{{.ID}}.html">{{.Title}}</a> <time>{{.UpdatedAt.Format "2006-01-02"}}</time></li>
      {{end}}
    </ul>
  </main>
</body>
</html>
`

// cssContent is the stylesheet shipped with exported sites.
const cssContent = `body {
  margin: 0;
  color: #1f2328;
  font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
}
header {
  padding: 0.75rem 1.5rem;
  border-bottom: 1px solid #d0d7de;
}
header a, header span { color: #1f2328; text-decoration: none; font-weight: 600; }
main { max-width: 48rem; margin: 0 auto; padding: 1.5rem; line-height: 1.6; }
.doc-index { list-style: none; padding: 0; }
.doc-index li { display: flex; justify-content: space-between; padding: 0.5rem 0; border-bottom: 1px solid #d0d7de; }
.doc-index time { color: #656d76; }
.doc-h1, .doc-h2 { border-bottom: 1px solid #d0d7de; padding-bottom: 0.3em; }
.doc-link { color: #0969da; }
.doc-img { max-width: 100%; }
.doc-quote { margin: 0; padding: 0 1em; color: #656d76; border-left: 0.25em solid #d0d7de; }
.doc-table { border-collapse: collapse; }
.doc-cell { border: 1px solid #d0d7de; padding: 0.4em 0.8em; }
pre { background: #f6f8fa; padding: 1rem; border-radius: 6px; overflow-x: auto; }
`
