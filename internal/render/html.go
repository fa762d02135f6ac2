package render

import (
	"bytes"
	_ "embed"
	"html/template"

	"resume-builder/internal/domain"
	"resume-builder/internal/theme"
)

// PreviewSelector addresses the element captured for raster export.
const PreviewSelector = "#resume-preview"

//go:embed templates/resume.html
var resumeHTML string

var pageTemplate = template.Must(template.New("resume").Parse(resumeHTML))

type pageData struct {
	View    View
	CSS     template.CSS
	Classes string
	Preview bool
}

// RenderHTML produces a self-contained document: every style rule is
// inlined and nothing is loaded from outside the file.
func RenderHTML(doc domain.Document, tpl theme.Template) ([]byte, error) {
	return renderPage(doc, tpl, false)
}

// RenderPreview produces the live preview page. It carries the capture
// surface addressed by PreviewSelector.
func RenderPreview(doc domain.Document, tpl theme.Template) ([]byte, error) {
	return renderPage(doc, tpl, true)
}

func renderPage(doc domain.Document, tpl theme.Template, preview bool) ([]byte, error) {
	if err := checkLevels(doc); err != nil {
		return nil, err
	}
	data := pageData{
		View:    Project(doc),
		CSS:     template.CSS(theme.BaseCSS + tpl.CSS()),
		Classes: tpl.PreviewClasses(),
		Preview: preview,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
